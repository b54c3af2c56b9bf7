package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core/team"
)

type teamApi struct {
	svc      team.ServiceInterface
	validate *validator.Validate
}

func registerTeamAPI(g *echo.Group, svc team.ServiceInterface, validate *validator.Validate) {
	api := teamApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/teams")
	tg.GET("", api.query)
	tg.POST("", api.create, adminMiddleware())
	tg.GET("/:team", api.retrieve, teamMiddleware(svc))
}

// Handlers

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) query(ctx echo.Context) error {
	teams, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	t, err := getContextTeam(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}
