package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/itchub/itchub/core/team"
)

const uniqueViolation = "23505"

type teamRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Slug           string      `db:"slug"`
	Department     null.String `db:"department"`
	MailingList    null.String `db:"mailing_list"`
	TelegramChatID null.Int64  `db:"telegram_chat_id"`
	CreatedAt      time.Time   `db:"created_at"`
}

func newTeamRow(t team.Team) teamRow {
	return teamRow{
		ID:             t.ID,
		Name:           t.Name,
		Slug:           t.Slug,
		Department:     null.NewString(t.Department, t.Department != ""),
		MailingList:    null.NewString(t.MailingList, t.MailingList != ""),
		TelegramChatID: null.NewInt64(t.TelegramChatID, t.TelegramChatID != 0),
		CreatedAt:      t.CreatedAt,
	}
}

func (r teamRow) team() team.Team {
	return team.Team{
		ID:             r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
		Department:     r.Department.String,
		MailingList:    r.MailingList.String,
		TelegramChatID: r.TelegramChatID.Int64,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

type teamRepository struct {
	db sqlx.ExtContext
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db sqlx.ExtContext) team.Repository {
	return &teamRepository{db: db}
}

func (repo *teamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	const q = `
INSERT INTO teams (id, name, slug, department, mailing_list, telegram_chat_id, created_at)
VALUES (:id, :name, :slug, :department, :mailing_list, :telegram_chat_id, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, newTeamRow(t)); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return team.Team{}, team.ErrSlugExists
		}
		return team.Team{}, errors.Wrap(err, "inserting team")
	}
	return t, nil
}

func (repo *teamRepository) QueryAllTeams(ctx context.Context) ([]team.Team, error) {
	var rows []teamRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, `SELECT * FROM teams ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "selecting teams")
	}
	teams := make([]team.Team, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, r.team())
	}
	return teams, nil
}

func (repo *teamRepository) get(ctx context.Context, q string, arg interface{}) (team.Team, error) {
	var r teamRow
	if err := sqlx.GetContext(ctx, repo.db, &r, q, arg); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return team.Team{}, team.ErrNotFound
		}
		return team.Team{}, errors.Wrap(err, "selecting team")
	}
	return r.team(), nil
}

func (repo *teamRepository) GetTeamByID(ctx context.Context, id string) (team.Team, error) {
	return repo.get(ctx, `SELECT * FROM teams WHERE id = $1`, id)
}

func (repo *teamRepository) GetTeamBySlug(ctx context.Context, slug string) (team.Team, error) {
	return repo.get(ctx, `SELECT * FROM teams WHERE slug = $1`, slug)
}
