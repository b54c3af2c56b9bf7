package dummydb

import (
	"context"
	"sort"

	"github.com/itchub/itchub/core/team"
)

type teamRepository struct {
	db *teamTable
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db *DB) team.Repository {
	return &teamRepository{db: db.team}
}

func (repo *teamRepository) query() []team.Team {
	teams := make([]team.Team, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (repo *teamRepository) CreateTeam(_ context.Context, t team.Team) (team.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.Slug == t.Slug {
			return team.Team{}, team.ErrSlugExists
		}
	}
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *teamRepository) QueryAllTeams(context.Context) ([]team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *teamRepository) GetTeamByID(_ context.Context, id string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) GetTeamBySlug(_ context.Context, slug string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.Slug == slug {
			return *t, nil
		}
	}
	return team.Team{}, team.ErrNotFound
}
