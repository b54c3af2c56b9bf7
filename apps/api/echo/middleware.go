package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core/team"
)

const contextTeamKey = "team"

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// teamMiddleware loads the team named by the `:team` path param (ID or slug).
func teamMiddleware(svc team.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			t, err := svc.Get(ctx.Request().Context(), ctx.Param("team"))
			if err != nil {
				if errors.Cause(err) == team.ErrNotFound {
					return errTeamNotFound
				}
				return errors.Wrap(err, "finding team")
			}
			ctx.Set(contextTeamKey, t)
			return next(ctx)
		}
	}
}

// teamManagerMiddleware lets through members allowed to manage the context team.
func teamManagerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			t, err := getContextTeam(ctx)
			if err != nil {
				return err
			}
			if claims.CanManage(t.ID) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func getContextTeam(ctx echo.Context) (team.Team, error) {
	t, ok := ctx.Get(contextTeamKey).(team.Team)
	if !ok {
		return team.Team{}, errors.Wrap(errTeamNotInCtx, "retrieving team from context")
	}
	return t, nil
}
