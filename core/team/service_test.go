package team_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/team"
	dummydb "github.com/itchub/itchub/storage/database/dummy"
)

func newService(t *testing.T) (*team.Service, *validator.Validate) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return team.NewService(dummydb.NewTeamRepository(db)), validate
}

func TestNewTeam_Validate(t *testing.T) {
	svc, validate := newService(t)
	_, err := svc.Create(context.Background(), team.NewTeam{Name: "Platform", Slug: "platform"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		nt        team.NewTeam
		wantField string
		wantSlug  string
	}{
		{name: "valid", nt: team.NewTeam{Name: "  Data  Science ", MailingList: "DATA@itc.test"}, wantSlug: "data-science"},
		{name: "explicit slug", nt: team.NewTeam{Name: "Ops", Slug: " Infra "}, wantSlug: "infra"},
		{name: "name required", nt: team.NewTeam{Name: "  "}, wantField: "name"},
		{name: "name too short", nt: team.NewTeam{Name: "X"}, wantField: "name"},
		{name: "invalid slug", nt: team.NewTeam{Name: "Ops", Slug: "ops_team"}, wantField: "slug"},
		{name: "invalid mailing list", nt: team.NewTeam{Name: "Ops", MailingList: "nope"}, wantField: "mailing_list"},
		{name: "slug taken", nt: team.NewTeam{Name: "Platform"}, wantField: "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nt := tt.nt
			err := nt.Validate(validate, svc)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSlug, nt.Slug)
				return
			}
			require.Error(t, err)
			switch e := errors.Cause(err).(type) {
			case validator.ValidationErrors:
				require.Len(t, e, 1)
				assert.Equal(t, tt.wantField, e[0].Field())
			case *core.ValidationError:
				assert.Contains(t, e.FieldMap(), tt.wantField)
			default:
				t.Fatalf("failed! Validate() err = %T; want a validation error", err)
			}
		})
	}
}

func TestService_Get(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, team.NewTeam{Name: "Web Dev"})
	require.NoError(t, err)
	assert.Equal(t, "web-dev", created.Slug)
	assert.NotEmpty(t, created.ID)

	byID, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	bySlug, err := svc.Get(ctx, "Web-Dev")
	require.NoError(t, err)
	assert.Equal(t, created, bySlug)

	_, err = svc.Get(ctx, "mobile")
	assert.Equal(t, team.ErrNotFound, errors.Cause(err))

	teams, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}
