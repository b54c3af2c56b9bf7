package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errTeamNotFound   = echo.NewHTTPError(http.StatusNotFound, team.ErrNotFound.Error())
	errSlugConflict   = echo.NewHTTPError(http.StatusConflict, team.ErrSlugExists.Error())
	errEventNotFound  = echo.NewHTTPError(http.StatusNotFound, calendar.ErrNotFound.Error())
	errSessionClosed  = echo.NewHTTPError(http.StatusConflict, calendar.ErrSessionClosed.Error())
	errStoreTransient = echo.NewHTTPError(http.StatusServiceUnavailable, "the calendar could not be saved, please retry")

	errTeamNotInCtx = errors.New("team object not found in echo.Context")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch cause {
		case calendar.ErrNotFound:
			cause = errEventNotFound
		case team.ErrNotFound:
			cause = errTeamNotFound
		case team.ErrSlugExists:
			cause = errSlugConflict
		case calendar.ErrSessionClosed:
			cause = errSessionClosed
		case calendar.ErrInvalidView:
			cause = core.NewValidationError(nil, core.FieldError{Field: "view", Error: calendar.ErrInvalidView.Error()})
		}
		if _, ok := cause.(*calendar.TransientError); ok {
			cause = errStoreTransient
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var person core.Person
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				person = claims.Person()
			}
			logger.Error(msg, errors.Wrap(err, msg), person)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
