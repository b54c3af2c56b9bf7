package calendar

import (
	"context"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core"
)

// EventForm is an event creation/edit form as submitted.
// A non-nil ID makes it an edit form.
type EventForm struct {
	ID          *int64 `json:"id,omitempty"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,isodate"`
	Time        string `json:"time" validate:"required,hhmm"`
	Duration    string `json:"duration"` // checked by eventFormStructValidation
	Type        string `json:"type"`     // checked by eventFormStructValidation
	Location    string `json:"location"`
}

func parseDuration(s string) (int, bool) {
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	for _, allowed := range Durations {
		if d == allowed {
			return d, true
		}
	}
	return 0, false
}

// BlankForm returns the defaults of a creation form.
func BlankForm() EventForm {
	return EventForm{
		Duration: "60",
		Type:     string(TypeMeeting),
	}
}

// FormFromEvent returns the edit form of ev.
// A type out of the known set falls back to meeting.
func FormFromEvent(ev Event) EventForm {
	typ := ev.Type
	if !typ.IsValid() {
		typ = TypeMeeting
	}
	id := ev.ID
	return EventForm{
		ID:          &id,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Time:        ev.Time,
		Duration:    strconv.Itoa(ev.Duration),
		Type:        string(typ),
		Location:    ev.Location,
	}
}

// Validate validates the form and normalizes it into an EventInput.
// Field errors are returned as a *core.ValidationError.
func (f EventForm) Validate(validate *validator.Validate, translator ut.Translator) (EventInput, error) {
	f.Title = core.CleanString(f.Title)
	f.Description = core.CleanString(f.Description)
	f.Date = core.CleanString(f.Date)
	f.Time = core.CleanString(f.Time)
	f.Duration = core.CleanString(f.Duration)
	f.Type = core.CleanString(f.Type, true /* lower */)
	f.Location = core.CleanString(f.Location)

	if err := validate.Struct(f); err != nil {
		return EventInput{}, core.TranslateValidationErrors(err, translator)
	}

	duration, _ := parseDuration(f.Duration)
	tm, _ := time.Parse(TimeLayout, f.Time) // "9:30" -> "09:30"
	in := EventInput{
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Time:        tm.Format(TimeLayout),
		Duration:    duration,
		Type:        EventType(f.Type),
		Location:    f.Location,
	}
	if in.Location == "" {
		in.Location = DefaultLocation
	}
	return in, nil
}

// FormController drives the event dialog of a calendar: it holds the form
// being edited, its field errors, and routes submissions to the calendar.
type FormController struct {
	svc        EventMutator
	validate   *validator.Validate
	translator ut.Translator

	form   EventForm
	errors map[string]string
	open   bool
}

func NewFormController(svc EventMutator, validate *validator.Validate, translator ut.Translator) *FormController {
	return &FormController{
		svc:        svc,
		validate:   validate,
		translator: translator,
		form:       BlankForm(),
	}
}

// Open opens the dialog on a blank form, or on ev's edit form when ev is not nil.
func (fc *FormController) Open(ev *Event) {
	if ev == nil {
		fc.form = BlankForm()
	} else {
		fc.form = FormFromEvent(*ev)
	}
	fc.errors = nil
	fc.open = true
}

// Close closes the dialog, dropping pending changes.
func (fc *FormController) Close() {
	fc.open = false
	fc.errors = nil
}

func (fc *FormController) IsOpen() bool               { return fc.open }
func (fc *FormController) Form() EventForm            { return fc.form }
func (fc *FormController) Errors() map[string]string { return fc.errors }

// SetForm replaces the form contents, keeping the create/edit mode.
func (fc *FormController) SetForm(form EventForm) {
	form.ID = fc.form.ID
	fc.form = form
}

// Submit validates the form then creates or updates the event.
// Nothing reaches the calendar when validation fails. On failure the dialog
// stays open with the form untouched; on success the form is reset and the
// dialog closed.
func (fc *FormController) Submit(ctx context.Context) (Event, error) {
	in, err := fc.form.Validate(fc.validate, fc.translator)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			fc.errors = vErr.FieldMap()
		}
		return Event{}, err
	}
	fc.errors = nil

	var ev Event
	if fc.form.ID != nil {
		ev, err = fc.svc.Update(ctx, *fc.form.ID, in)
	} else {
		ev, err = fc.svc.Create(ctx, in)
	}
	if err != nil {
		return Event{}, err
	}

	if fc.form.ID != nil {
		if stored, gErr := fc.svc.Get(ev.ID); gErr == nil {
			ev = stored
		}
		fc.form = FormFromEvent(ev)
	} else {
		fc.form = BlankForm()
	}
	fc.open = false
	return ev, nil
}
