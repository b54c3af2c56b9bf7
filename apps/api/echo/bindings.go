package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
)

type (
	// ViewQuery holds the navigation state of the calendar grid, as query params.
	ViewQuery struct {
		View string `query:"view"`
		Date string `query:"date"` // YYYY-MM-DD, today when empty
		Nav  string `query:"nav"`  // prev | next
		Jump string `query:"jump"` // YYYY-MM-DD, switches to the day view
	}

	// ViewResponse is the calendar grid after navigation.
	ViewResponse struct {
		View calendar.View `json:"view"`
		Date string        `json:"date"`
		Grid calendar.Grid `json:"grid"`
	}
)

func (q *ViewQuery) Bind(ctx echo.Context) error {
	if err := ctx.Bind(q); err != nil {
		return errors.Wrap(err, "binding to ViewQuery")
	}
	q.View = core.CleanString(q.View, true /* lower */)
	q.Date = core.CleanString(q.Date)
	q.Nav = core.CleanString(q.Nav, true /* lower */)
	q.Jump = core.CleanString(q.Jump)
	return nil
}

// Navigator returns the navigator the query leads to, dates read in loc.
func (q ViewQuery) Navigator(now time.Time, loc *time.Location) (*calendar.Navigator, error) {
	date := now.In(loc)
	if q.Date != "" {
		d, err := calendar.ParseDate(q.Date, loc)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "date", Error: errInvalidDate})
		}
		date = d
	}

	nav := calendar.NewNavigator(date, calendar.ViewMonth)
	if q.View != "" {
		if err := nav.SetView(calendar.View(q.View)); err != nil {
			return nil, err
		}
	}

	if q.Jump != "" {
		d, err := calendar.ParseDate(q.Jump, loc)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "jump", Error: errInvalidDate})
		}
		nav.JumpTo(d)
	}

	switch calendar.Direction(q.Nav) {
	case "":
	case calendar.DirPrev, calendar.DirNext:
		nav.Navigate(calendar.Direction(q.Nav))
	default:
		return nil, core.NewValidationError(nil, core.FieldError{Field: "nav", Error: errInvalidNav})
	}
	return nav, nil
}

// bindLimit reads the `limit` query param, falling back to def.
func bindLimit(ctx echo.Context, def int) (int, error) {
	raw := ctx.QueryParam("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "limit", Error: errInvalidLimit})
	}
	return limit, nil
}

// bindEventID reads the `:id` path param.
func bindEventID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errEventNotFound
	}
	return id, nil
}
