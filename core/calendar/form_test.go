package calendar

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchub/itchub/core"
)

func newFormController(t *testing.T, svc EventMutator) *FormController {
	t.Helper()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return NewFormController(svc, validate, translator)
}

// countingMutator counts the calls reaching the calendar.
type countingMutator struct {
	*Session
	calls int
}

func (m *countingMutator) Create(ctx context.Context, in EventInput) (Event, error) {
	m.calls++
	return m.Session.Create(ctx, in)
}

func (m *countingMutator) Update(ctx context.Context, id int64, in EventInput) (Event, error) {
	m.calls++
	return m.Session.Update(ctx, id, in)
}

func validForm() EventForm {
	return EventForm{
		Title:    "Q4 Planning",
		Date:     "2025-03-10",
		Time:     "14:00",
		Duration: "60",
		Type:     "planning",
		Location: "",
	}
}

func TestEventForm_Validate(t *testing.T) {
	fc := newFormController(t, nil)

	tests := []struct {
		name       string
		edit       func(f *EventForm)
		wantFields []string
	}{
		{name: "valid", edit: func(f *EventForm) {}},
		{name: "short title", edit: func(f *EventForm) { f.Title = "Hi" }, wantFields: []string{"title"}},
		{name: "blank title", edit: func(f *EventForm) { f.Title = "   " }, wantFields: []string{"title"}},
		{name: "empty date", edit: func(f *EventForm) { f.Date = "" }, wantFields: []string{"date"}},
		{name: "impossible date", edit: func(f *EventForm) { f.Date = "2025-02-30" }, wantFields: []string{"date"}},
		{name: "time out of range", edit: func(f *EventForm) { f.Time = "24:00" }, wantFields: []string{"time"}},
		{name: "time not HH:MM", edit: func(f *EventForm) { f.Time = "2pm" }, wantFields: []string{"time"}},
		{name: "duration not allowed", edit: func(f *EventForm) { f.Duration = "45" }, wantFields: []string{"duration"}},
		{name: "duration not a number", edit: func(f *EventForm) { f.Duration = "an hour" }, wantFields: []string{"duration"}},
		{name: "unknown type", edit: func(f *EventForm) { f.Type = "party" }, wantFields: []string{"type"}},
		{
			name:       "many errors",
			edit:       func(f *EventForm) { f.Title = "x"; f.Time = "99:99"; f.Type = "" },
			wantFields: []string{"title", "time", "type"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)
			_, err := form.Validate(fc.validate, fc.translator)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "Validate() err = %v; want *core.ValidationError", err)
			fields := vErr.FieldMap()
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.NotEmpty(t, fields[f], "missing error for %q", f)
			}
		})
	}
}

func TestEventForm_Validate_normalizes(t *testing.T) {
	fc := newFormController(t, nil)

	form := validForm()
	form.Title = "  Q4 Planning "
	form.Time = "9:05"
	form.Type = "Planning"
	in, err := form.Validate(fc.validate, fc.translator)
	require.NoError(t, err)

	assert.Equal(t, EventInput{
		Title:    "Q4 Planning",
		Date:     "2025-03-10",
		Time:     "09:05",
		Duration: 60,
		Type:     TypePlanning,
		Location: DefaultLocation,
	}, in)
}

func TestEventForm_messages(t *testing.T) {
	fc := newFormController(t, nil)

	form := validForm()
	form.Time = "25:00"
	form.Duration = "15"
	_, err := form.Validate(fc.validate, fc.translator)

	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"time":     hhmmText,
		"duration": durationText,
	}, vErr.FieldMap())
}

func TestFormController_Submit_create(t *testing.T) {
	mut := &countingMutator{Session: NewSession(teamID, nil, nil, nil)}
	fc := newFormController(t, mut)

	fc.Open(nil)
	assert.True(t, fc.IsOpen())
	fc.SetForm(validForm())

	ev, err := fc.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mut.calls)

	events := mut.List()
	require.Len(t, events, 1)
	assert.Equal(t, ev, events[0])
	assert.Equal(t, "Q4 Planning", ev.Title)
	assert.Equal(t, 60, ev.Duration)
	assert.Equal(t, DefaultLocation, ev.Location)
	assert.Equal(t, []string{DefaultAttendee}, ev.Attendees)

	assert.False(t, fc.IsOpen(), "dialog should be closed")
	assert.Equal(t, BlankForm(), fc.Form())
	assert.Empty(t, fc.Errors())
}

func TestFormController_Submit_edit(t *testing.T) {
	stored := Event{ID: 42, Title: "Sprint Review", Date: "2025-03-12", Time: "10:00", Duration: 30, Type: TypeReview, Attendees: []string{"Ama"}, Location: "Lab 2"}
	mut := &countingMutator{Session: NewSession(teamID, []Event{stored}, nil, nil)}
	fc := newFormController(t, mut)

	fc.Open(&stored)
	form := fc.Form()
	require.NotNil(t, form.ID)
	assert.Equal(t, int64(42), *form.ID)

	form.Title = "Renamed"
	fc.SetForm(form)
	ev, err := fc.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), ev.ID)
	events := mut.List()
	require.Len(t, events, 1)
	assert.Equal(t, "Renamed", events[0].Title)
	assert.Equal(t, []string{"Ama"}, events[0].Attendees, "attendees should be kept")
	assert.Equal(t, "Lab 2", events[0].Location)

	// re-populated from the stored event
	assert.False(t, fc.IsOpen())
	assert.Equal(t, FormFromEvent(events[0]), fc.Form())
}

func TestFormController_Submit_invalid(t *testing.T) {
	mut := &countingMutator{Session: NewSession(teamID, nil, nil, nil)}
	fc := newFormController(t, mut)

	fc.Open(nil)
	form := validForm()
	form.Title = "Hi"
	form.Time = "7 o'clock"
	fc.SetForm(form)

	_, err := fc.Submit(context.Background())
	require.Error(t, err)
	assert.Zero(t, mut.calls, "nothing should reach the calendar")
	assert.Empty(t, mut.List())

	assert.True(t, fc.IsOpen(), "dialog should stay open")
	assert.Equal(t, form, fc.Form(), "input should be kept")
	assert.Contains(t, fc.Errors(), "title")
	assert.Contains(t, fc.Errors(), "time")
}

func TestFormController_Submit_notFound(t *testing.T) {
	rec := new(recorder)
	mut := &countingMutator{Session: NewSession(teamID, nil, nil, rec)}
	fc := newFormController(t, mut)

	gone := Event{ID: 7, Title: "Deleted meanwhile", Date: "2025-03-12", Time: "10:00", Duration: 30, Type: TypeReview}
	fc.Open(&gone)
	_, err := fc.Submit(context.Background())

	assert.Equal(t, ErrNotFound, errors.Cause(err))
	assert.True(t, rec.last().IsFailure())
	assert.True(t, fc.IsOpen())
	assert.Equal(t, FormFromEvent(gone), fc.Form())
}

func TestFormFromEvent_typeFallback(t *testing.T) {
	form := FormFromEvent(Event{ID: 1, Title: "Hackathon", Type: "hackathon", Duration: 90})
	assert.Equal(t, string(TypeMeeting), form.Type)
	assert.Equal(t, "90", form.Duration)
}
