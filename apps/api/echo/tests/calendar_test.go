package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/itchub/itchub/apps/api/echo"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
	"github.com/itchub/itchub/tests"
)

var (
	retro = calendar.Event{
		ID: 1, Title: "Retro", Date: "2025-03-07", Time: "16:00", Duration: 60,
		Type: calendar.TypeMeeting, Attendees: []string{"You"}, Location: "Virtual",
	}
	planning = calendar.Event{
		ID: 2, Title: "Sprint Planning", Description: "Q2 goals", Date: "2025-03-10", Time: "14:00", Duration: 90,
		Type: calendar.TypePlanning, Attendees: []string{"Ama", "Kofi"}, Location: "Room A",
	}
	review = calendar.Event{
		ID: 3, Title: "Model Review", Date: "2025-03-12", Time: "10:00", Duration: 30,
		Type: calendar.TypeReview, Attendees: []string{"Ama", "Yaw"}, Location: "Lab 2",
	}
)

// seedCalendar creates the platform team with its events, and another team.
func seedCalendar(t *testing.T) (platform, other team.Team) {
	platform = testutil.CreateTeam(t, teamRepo, "Platform", "platform")
	other = testutil.CreateTeam(t, teamRepo, "Data Science", "data")
	for _, ev := range []calendar.Event{review, retro, planning} {
		testutil.CreateEvent(t, eventRepo, platform.ID, ev)
	}
	return platform, other
}

func Test_calendarApi_queryEvents(t *testing.T) {
	app := setup(t)
	seedCalendar(t)
	token := managerToken(t)

	runTests(t, app, []httpTest{
		{name: "Auth required", path: "/v1/teams/platform/events", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "unknown team", path: "/v1/teams/design/events", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: team.ErrNotFound.Error()}),
		},
		{name: "all", path: "/v1/teams/platform/events", token: token, wantData: marchallList(t, retro, planning, review)},
		{name: "type=all", path: "/v1/teams/platform/events?type=all", token: token, wantData: marchallList(t, retro, planning, review)},
		{name: "type=review", path: "/v1/teams/platform/events?type=Review", token: token, wantData: marchallList(t, review)},
		{name: "type (unknown)", path: "/v1/teams/platform/events?type=party", token: token, wantData: marchallList(t)},
		{name: "other team (empty)", path: "/v1/teams/data/events", token: token, wantData: marchallList(t)},
		{
			name: "filters", path: "/v1/teams/platform/events/filters", token: token,
			wantData: marchallList(t, "all", "meeting", "planning", "review"),
		},
		{name: "filters (empty)", path: "/v1/teams/data/events/filters", token: token, wantData: marchallList(t, "all")},
	})
}

func Test_calendarApi_upcomingEvents(t *testing.T) {
	app := setup(t)
	seedCalendar(t)
	token := managerToken(t)

	upPlanning := calendar.UpcomingEvent{ID: 2, Title: "Sprint Planning", Type: calendar.TypePlanning, Date: "Mar 10, 2025, 2:00 PM", Attendees: 2}
	upReview := calendar.UpcomingEvent{ID: 3, Title: "Model Review", Type: calendar.TypeReview, Date: "Mar 12, 2025, 10:00 AM", Attendees: 2}

	runTests(t, app, []httpTest{
		{name: "past events left out", path: "/v1/teams/platform/events/upcoming", token: token, wantData: marchallList(t, upPlanning, upReview)},
		{name: "limit", path: "/v1/teams/platform/events/upcoming?limit=1", token: token, wantData: marchallList(t, upPlanning)},
		{
			name: "invalid limit", path: "/v1/teams/platform/events/upcoming?limit=-2", token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"limit": "must be a positive number"}),
		},
	})
}

func Test_calendarApi_view(t *testing.T) {
	app := setup(t)
	seedCalendar(t)
	token := managerToken(t)

	get := func(t *testing.T, query string) ViewResponse {
		req, rec := newAuthRequest(http.MethodGet, "/v1/teams/platform/calendar"+query, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res ViewResponse
		unmarchall(t, rec, &res)
		return res
	}

	t.Run("month (default)", func(t *testing.T) {
		res := get(t, "")
		assert.Equal(t, calendar.ViewMonth, res.View)
		assert.Equal(t, "2025-03-10", res.Date)
		require.NotNil(t, res.Grid.Month)
		assert.Nil(t, res.Grid.Week)
		assert.Nil(t, res.Grid.Day)

		cells := res.Grid.Month.Cells
		require.Len(t, cells, 6+31) // March 1st, 2025 is a Saturday
		for _, c := range cells[:6] {
			assert.True(t, c.Blank)
		}
		tenth := cells[6+9]
		assert.Equal(t, "2025-03-10", tenth.Date)
		require.Len(t, tenth.Events, 1)
		assert.Equal(t, planning.ID, tenth.Events[0].ID)
	})

	t.Run("month, nav=prev", func(t *testing.T) {
		res := get(t, "?nav=prev")
		assert.Equal(t, "2025-02-10", res.Date)
		require.NotNil(t, res.Grid.Month)
		assert.Len(t, res.Grid.Month.Cells, 6+28)
	})

	t.Run("week, nav=next", func(t *testing.T) {
		res := get(t, "?view=week&date=2025-03-03&nav=next")
		assert.Equal(t, calendar.ViewWeek, res.View)
		assert.Equal(t, "2025-03-10", res.Date)
		require.NotNil(t, res.Grid.Week)
		assert.Equal(t, "2025-03-09", res.Grid.Week.Dates[0])
		assert.Equal(t, "2025-03-15", res.Grid.Week.Dates[6])
	})

	t.Run("jump", func(t *testing.T) {
		res := get(t, "?view=week&jump=2025-03-12")
		assert.Equal(t, calendar.ViewDay, res.View)
		assert.Equal(t, "2025-03-12", res.Date)
		require.NotNil(t, res.Grid.Day)
		assert.Equal(t, []calendar.Event{review}, res.Grid.Day.Events)
	})

	runTests(t, app, []httpTest{
		{
			name: "invalid view", path: "/v1/teams/platform/calendar?view=year", token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"view": calendar.ErrInvalidView.Error()}),
		},
		{
			name: "invalid date", path: "/v1/teams/platform/calendar?date=2025-02-30", token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"date": "enter a valid date (YYYY-MM-DD)"}),
		},
		{
			name: "invalid nav", path: "/v1/teams/platform/calendar?nav=sideways", token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"nav": "must be prev or next"}),
		},
	})
}

func Test_calendarApi_mutations_gate(t *testing.T) {
	app := setup(t)
	platform, other := seedCalendar(t)

	form := calendar.EventForm{Title: "Design Sync", Date: "2025-03-11", Time: "11:00", Duration: "30", Type: "meeting"}
	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	runTests(t, app, []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/teams/platform/events", body: marchallObj(t, form),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "create (not a manager)", method: http.MethodPost, path: "/v1/teams/platform/events", body: marchallObj(t, form),
			token: managerToken(t), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "create (manager of another team)", method: http.MethodPost, path: "/v1/teams/platform/events", body: marchallObj(t, form),
			token: managerToken(t, other.ID), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "update (not a manager)", method: http.MethodPut, path: "/v1/teams/platform/events/2", body: marchallObj(t, form),
			token: managerToken(t), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "delete (not a manager)", method: http.MethodDelete, path: "/v1/teams/platform/events/2",
			token: managerToken(t), wantCode: http.StatusForbidden, wantData: forbidden,
		},
	})

	events, err := eventRepo.QueryEvents(context.Background(), platform.ID)
	require.NoError(t, err)
	assert.Len(t, events, 3, "nothing should have changed")
}

func Test_calendarApi_createEvent(t *testing.T) {
	app := setup(t)
	platform, _ := seedCalendar(t)
	token := managerToken(t, platform.ID)

	t.Run("Created", func(t *testing.T) {
		form := calendar.EventForm{Title: " Design Sync ", Date: "2025-03-11", Time: "9:30", Duration: "30", Type: "Workshop"}
		req, rec := newAuthRequest(http.MethodPost, "/v1/teams/platform/events", token, marchallObj(t, form))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res MutationResponse
		unmarchall(t, rec, &res)
		require.NotNil(t, res.Event)
		assert.Equal(t, "Design Sync", res.Event.Title)
		assert.Equal(t, "09:30", res.Event.Time)
		assert.Equal(t, 30, res.Event.Duration)
		assert.Equal(t, calendar.TypeWorkshop, res.Event.Type)
		assert.Equal(t, []string{calendar.DefaultAttendee}, res.Event.Attendees)
		assert.Equal(t, calendar.DefaultLocation, res.Event.Location)
		assert.Equal(t, calendar.ColorCreated, res.Event.Color)
		assert.Equal(t, &calendar.Notification{Title: "Event Created", Description: "Design Sync", Variant: calendar.VariantDefault}, res.Notification)

		events, err := eventRepo.QueryEvents(context.Background(), platform.ID)
		require.NoError(t, err)
		assert.Contains(t, events, *res.Event, "event should be persisted")
	})

	t.Run("Admin can manage every team", func(t *testing.T) {
		form := calendar.EventForm{Title: "All hands", Date: "2025-03-14", Time: "17:00", Duration: "60", Type: "meeting"}
		req, rec := newAuthRequest(http.MethodPost, "/v1/teams/platform/events", adminToken(t), marchallObj(t, form))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("Invalid form", func(t *testing.T) {
		form := calendar.EventForm{Title: "Hi", Date: "2025-03-11", Time: "25:00", Duration: "45", Type: "meeting"}
		req, rec := newAuthRequest(http.MethodPost, "/v1/teams/platform/events", token, marchallObj(t, form))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		var fields map[string]string
		unmarchall(t, rec, &fields)
		assert.Len(t, fields, 3)
		for _, f := range []string{"title", "time", "duration"} {
			assert.NotEmpty(t, fields[f], "missing error for %q", f)
		}
	})

	events, err := eventRepo.QueryEvents(context.Background(), platform.ID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func Test_calendarApi_updateEvent(t *testing.T) {
	app := setup(t)
	platform, _ := seedCalendar(t)
	token := managerToken(t, platform.ID)

	t.Run("Updated", func(t *testing.T) {
		form := calendar.FormFromEvent(planning)
		form.Title = "Sprint Planning (moved)"
		form.Date = "2025-03-13"
		req, rec := newAuthRequest(http.MethodPut, "/v1/teams/platform/events/2", token, marchallObj(t, form))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		want := planning
		want.Title = "Sprint Planning (moved)"
		want.Date = "2025-03-13"

		var res MutationResponse
		unmarchall(t, rec, &res)
		assert.Equal(t, &want, res.Event)
		assert.Equal(t, &calendar.Notification{Title: "Event Updated", Description: want.Title, Variant: calendar.VariantDefault}, res.Notification)

		events, err := eventRepo.QueryEvents(context.Background(), platform.ID)
		require.NoError(t, err)
		assert.Contains(t, events, want)
	})

	runTests(t, app, []httpTest{
		{
			name: "unknown event", method: http.MethodPut, path: "/v1/teams/platform/events/999", token: token,
			body:     marchallObj(t, calendar.FormFromEvent(review)),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: calendar.ErrNotFound.Error()}),
		},
		{
			name: "malformed id", method: http.MethodPut, path: "/v1/teams/platform/events/abc", token: token,
			body:     marchallObj(t, calendar.FormFromEvent(review)),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: calendar.ErrNotFound.Error()}),
		},
	})

	t.Run("unknown event is notified", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/teams/platform/events/998", token, marchallObj(t, calendar.FormFromEvent(review)))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

		n, ok := notes.last()
		require.True(t, ok, "failed! no notification sent")
		assert.Equal(t, "Failed to update event", n.Title)
		assert.Equal(t, calendar.ErrNotFound.Error(), n.Description)
		assert.Equal(t, calendar.VariantDestructive, n.Variant)
	})
}

func Test_calendarApi_deleteEvent(t *testing.T) {
	app := setup(t)
	platform, _ := seedCalendar(t)
	token := managerToken(t, platform.ID)

	runTests(t, app, []httpTest{
		{
			name: "Deleted", method: http.MethodDelete, path: "/v1/teams/platform/events/1", token: token,
			wantData: marchallObj(t, MutationResponse{
				Notification: &calendar.Notification{Title: "Event Deleted", Description: retro.Title, Variant: calendar.VariantDefault},
			}),
		},
		{
			name: "already deleted", method: http.MethodDelete, path: "/v1/teams/platform/events/1", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: calendar.ErrNotFound.Error()}),
		},
		{name: "gone from the list", path: "/v1/teams/platform/events", token: token, wantData: marchallList(t, planning, review)},
	})

	events, err := eventRepo.QueryEvents(context.Background(), platform.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func Test_feed(t *testing.T) {
	app := setup(t)
	seedCalendar(t)

	t.Run("public", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/teams/platform/calendar.ics")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="platform.ics"`, rec.Header().Get("Content-Disposition"))
		body := rec.Body.String()
		assert.Contains(t, body, "BEGIN:VCALENDAR")
		assert.Contains(t, body, "X-WR-CALNAME:Platform")
		for _, ev := range []calendar.Event{retro, planning, review} {
			assert.Contains(t, body, "SUMMARY:"+ev.Title)
		}
	})

	runTests(t, app, []httpTest{
		{
			name: "unknown team", path: "/teams/design/calendar.ics",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: team.ErrNotFound.Error()}),
		},
	})
}

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to ITC Hub API!", rec.Body.String())
}
