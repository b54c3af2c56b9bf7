package echoapi

import (
	"net/http"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/storage/ics"
)

var (
	errInvalidDate  = "enter a valid date (YYYY-MM-DD)"
	errInvalidNav   = "must be prev or next"
	errInvalidLimit = "must be a positive number"
)

type (
	calendarApi struct {
		conf       *core.Config
		sessions   *calendar.Sessions
		validate   *validator.Validate
		translator ut.Translator
	}

	// MutationResponse carries the mutated event and the notification it emitted.
	MutationResponse struct {
		Event        *calendar.Event        `json:"event,omitempty"`
		Notification *calendar.Notification `json:"notification,omitempty"`
	}

	// lastNotification keeps the notification a mutation emitted.
	lastNotification struct {
		mu  sync.Mutex
		ntf *calendar.Notification
	}
)

func (l *lastNotification) Notify(n calendar.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ntf = &n
}

func (l *lastNotification) get() *calendar.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ntf
}

func registerCalendarAPI(
	g *echo.Group,
	teamMw echo.MiddlewareFunc,
	conf *core.Config,
	sessions *calendar.Sessions,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := calendarApi{
		conf:       conf,
		sessions:   sessions,
		validate:   validate,
		translator: translator,
	}

	// route-level middleware only: a group would shadow the routes registered before it
	manager := teamManagerMiddleware()
	g.GET("/teams/:team/calendar", api.view, teamMw)
	g.GET("/teams/:team/events", api.query, teamMw)
	g.GET("/teams/:team/events/filters", api.filters, teamMw)
	g.GET("/teams/:team/events/upcoming", api.upcoming, teamMw)

	// mutations, behind the (teamId, "manage") gate
	g.POST("/teams/:team/events", api.create, teamMw, manager)
	g.PUT("/teams/:team/events/:id", api.update, teamMw, manager)
	g.DELETE("/teams/:team/events/:id", api.destroy, teamMw, manager)
}

func (api *calendarApi) session(ctx echo.Context) (*calendar.Session, error) {
	t, err := getContextTeam(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := api.sessions.Open(ctx.Request().Context(), t.ID)
	if err != nil {
		return nil, errors.Wrap(err, "opening team calendar")
	}
	return sess, nil
}

// Handlers

func (api *calendarApi) query(ctx echo.Context) error {
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	typ := core.CleanString(ctx.QueryParam("type"), true /* lower */)
	if typ == "" {
		typ = calendar.FilterAll
	}
	return ctx.JSON(http.StatusOK, calendar.FilterByType(sess.List(), typ))
}

func (api *calendarApi) filters(ctx echo.Context) error {
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, calendar.FilterChoices(sess.List()))
}

func (api *calendarApi) upcoming(ctx echo.Context) error {
	limit, err := bindLimit(ctx, calendar.UpcomingLimit)
	if err != nil {
		return err
	}
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	now := calendar.NowFunc().In(api.conf.Calendar.Location())
	return ctx.JSON(http.StatusOK, calendar.Upcoming(sess.List(), now, limit))
}

func (api *calendarApi) view(ctx echo.Context) error {
	var q ViewQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}
	nav, err := q.Navigator(calendar.NowFunc(), api.conf.Calendar.Location())
	if err != nil {
		return err
	}
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ViewResponse{
		View: nav.View(),
		Date: calendar.CanonicalDate(nav.CurrentDate()),
		Grid: calendar.BuildGrid(nav, sess.List()),
	})
}

func (api *calendarApi) submit(ctx echo.Context, sess *calendar.Session, existing *calendar.Event) (MutationResponse, error) {
	var form calendar.EventForm
	if err := ctx.Bind(&form); err != nil {
		return MutationResponse{}, errors.Wrap(err, "binding to EventForm")
	}

	fc := calendar.NewFormController(sess, api.validate, api.translator)
	fc.Open(existing)
	fc.SetForm(form)

	last := new(lastNotification)
	ev, err := fc.Submit(calendar.WithNotifier(ctx.Request().Context(), last))
	if err != nil {
		return MutationResponse{}, err
	}
	return MutationResponse{Event: &ev, Notification: last.get()}, nil
}

func (api *calendarApi) create(ctx echo.Context) error {
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	res, err := api.submit(ctx, sess, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *calendarApi) update(ctx echo.Context) error {
	id, err := bindEventID(ctx)
	if err != nil {
		return err
	}
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	// a missing id is reported by the session, so the failure is notified too
	res, err := api.submit(ctx, sess, &calendar.Event{ID: id})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *calendarApi) destroy(ctx echo.Context) error {
	id, err := bindEventID(ctx)
	if err != nil {
		return err
	}
	sess, err := api.session(ctx)
	if err != nil {
		return err
	}
	last := new(lastNotification)
	if err = sess.Delete(calendar.WithNotifier(ctx.Request().Context(), last), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MutationResponse{Notification: last.get()})
}

// feed serves the team calendar as an ICS file.
func feed(conf *core.Config, sessions *calendar.Sessions) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		t, err := getContextTeam(ctx)
		if err != nil {
			return err
		}
		sess, err := sessions.Open(ctx.Request().Context(), t.ID)
		if err != nil {
			return errors.Wrap(err, "opening team calendar")
		}
		out, err := ics.Export(t, sess.List(), conf.Calendar.Location())
		if err != nil {
			return errors.Wrap(err, "exporting team calendar")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+t.Slug+`.ics"`)
		return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
	}
}
