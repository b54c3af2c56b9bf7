package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchub/itchub/core/team"
	"github.com/itchub/itchub/tests"
)

func Test_teamApi_queryTeams(t *testing.T) {
	app := setup(t)

	platform := testutil.CreateTeam(t, teamRepo, "Platform", "platform")
	data := testutil.CreateTeam(t, teamRepo, "Data Science", "data")

	runTests(t, app, []httpTest{
		{name: "Auth required", path: "/v1/teams", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all (member)", path: "/v1/teams", token: managerToken(t), wantData: marchallList(t, data, platform)},
		{name: "Get all (admin)", path: "/v1/teams", token: adminToken(t), wantData: marchallList(t, data, platform)},
	})
}

func Test_teamApi_retrieveTeam(t *testing.T) {
	app := setup(t)

	platform := testutil.CreateTeam(t, teamRepo, "Platform", "platform")
	token := managerToken(t)

	runTests(t, app, []httpTest{
		{name: "Auth required", path: "/v1/teams/platform", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "by slug", path: "/v1/teams/platform", token: token, wantData: marchallObj(t, platform)},
		{name: "by slug (case insensitive)", path: "/v1/teams/PlatForm", token: token, wantData: marchallObj(t, platform)},
		{name: "by ID", path: "/v1/teams/" + platform.ID, token: token, wantData: marchallObj(t, platform)},
		{
			name: "unknown", path: "/v1/teams/design", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: team.ErrNotFound.Error()}),
		},
	})
}

func Test_teamApi_createTeam(t *testing.T) {
	app := setup(t)

	testutil.CreateTeam(t, teamRepo, "Platform", "platform")
	admin := adminToken(t)

	t.Run("Admin required", func(t *testing.T) {
		body := marchallObj(t, team.NewTeam{Name: "Design"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/teams", managerToken(t), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("Created", func(t *testing.T) {
		body := marchallObj(t, team.NewTeam{Name: "  Design Systems ", Department: "Product", MailingList: "Design@ITC.test"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/teams", admin, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got team.Team
		unmarchall(t, rec, &got)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Design Systems", got.Name)
		assert.Equal(t, "design-systems", got.Slug)
		assert.Equal(t, "Product", got.Department)
		assert.Equal(t, "design@itc.test", got.MailingList)
		assert.True(t, got.CreatedAt.Equal(now), "created_at = %v; want %v", got.CreatedAt, now)

		stored, err := teamRepo.GetTeamBySlug(req.Context(), "design-systems")
		require.NoError(t, err)
		assert.Equal(t, got.ID, stored.ID)
	})

	invalid := []struct {
		name       string
		data       team.NewTeam
		wantFields []string
	}{
		{name: "name required", data: team.NewTeam{}, wantFields: []string{"name"}},
		{name: "name too short", data: team.NewTeam{Name: "X"}, wantFields: []string{"name"}},
		{name: "invalid mailing list", data: team.NewTeam{Name: "Infra", MailingList: "infra@"}, wantFields: []string{"mailing_list"}},
		{name: "slug taken", data: team.NewTeam{Name: "Platform"}, wantFields: []string{"slug"}},
		{name: "slug taken (explicit)", data: team.NewTeam{Name: "Platform Two", Slug: "PLATFORM"}, wantFields: []string{"slug"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/teams", admin, marchallObj(t, tt.data))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var fields map[string]string
			unmarchall(t, rec, &fields)
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.NotEmpty(t, fields[f], "missing error for %q", f)
			}
		})
	}
}
