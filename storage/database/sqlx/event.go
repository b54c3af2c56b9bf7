package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/itchub/itchub/core/calendar"
)

type eventRow struct {
	ID          int64          `db:"id"`
	TeamID      string         `db:"team_id"`
	Title       string         `db:"title"`
	Description null.String    `db:"description"`
	Date        time.Time      `db:"date"`
	Time        string         `db:"time"`
	Duration    int            `db:"duration"`
	Type        string         `db:"type"`
	Attendees   pq.StringArray `db:"attendees"`
	Location    null.String    `db:"location"`
	Color       null.String    `db:"color"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func newEventRow(teamID string, ev calendar.Event) (eventRow, error) {
	date, err := calendar.ParseDate(ev.Date, time.UTC)
	if err != nil {
		return eventRow{}, errors.Wrapf(err, "parsing date of event %d", ev.ID)
	}
	attendees := ev.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventRow{
		ID:          ev.ID,
		TeamID:      teamID,
		Title:       ev.Title,
		Description: null.NewString(ev.Description, ev.Description != ""),
		Date:        date,
		Time:        ev.Time,
		Duration:    ev.Duration,
		Type:        string(ev.Type),
		Attendees:   attendees,
		Location:    null.NewString(ev.Location, ev.Location != ""),
		Color:       null.NewString(ev.Color, ev.Color != ""),
		UpdatedAt:   calendar.NowFunc().UTC(),
	}, nil
}

func (r eventRow) event() calendar.Event {
	return calendar.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		Date:        calendar.CanonicalDate(r.Date.UTC()),
		Time:        r.Time,
		Duration:    r.Duration,
		Type:        calendar.EventType(r.Type),
		Attendees:   []string(r.Attendees),
		Location:    r.Location.String,
		Color:       r.Color.String,
	}
}

type eventRepository struct {
	db sqlx.ExtContext
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db sqlx.ExtContext) calendar.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) QueryEvents(ctx context.Context, teamID string) ([]calendar.Event, error) {
	var rows []eventRow
	const q = `SELECT * FROM team_events WHERE team_id = $1 ORDER BY date, time`
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, teamID); err != nil {
		return nil, errors.Wrap(err, "selecting team events")
	}
	events := make([]calendar.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return events, nil
}

func (repo *eventRepository) SaveEvent(ctx context.Context, teamID string, ev calendar.Event) error {
	const q = `
INSERT INTO team_events (id, team_id, title, description, date, time, duration, type, attendees, location, color, updated_at)
VALUES (:id, :team_id, :title, :description, :date, :time, :duration, :type, :attendees, :location, :color, :updated_at)
ON CONFLICT (team_id, id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	date = EXCLUDED.date,
	time = EXCLUDED.time,
	duration = EXCLUDED.duration,
	type = EXCLUDED.type,
	attendees = EXCLUDED.attendees,
	location = EXCLUDED.location,
	color = EXCLUDED.color,
	updated_at = EXCLUDED.updated_at`

	row, err := newEventRow(teamID, ev)
	if err != nil {
		return err
	}
	if _, err = sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return errors.Wrap(err, "saving team event")
	}
	return nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, teamID string, id int64) error {
	const q = `DELETE FROM team_events WHERE team_id = $1 AND id = $2`
	if _, err := repo.db.ExecContext(ctx, q, teamID, id); err != nil {
		return errors.Wrap(err, "deleting team event")
	}
	return nil
}
