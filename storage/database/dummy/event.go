package dummydb

import (
	"context"

	"github.com/itchub/itchub/core/calendar"
)

type eventRepository struct {
	db *eventTable
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) calendar.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) QueryEvents(_ context.Context, teamID string) ([]calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]calendar.Event, 0, len(repo.db.table[teamID]))
	for _, ev := range repo.db.table[teamID] {
		e := *ev
		e.Attendees = append([]string(nil), ev.Attendees...)
		events = append(events, e)
	}
	return events, nil
}

func (repo *eventRepository) SaveEvent(_ context.Context, teamID string, ev calendar.Event) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	tbl, ok := repo.db.table[teamID]
	if !ok {
		tbl = make(map[int64]*calendar.Event)
		repo.db.table[teamID] = tbl
	}
	ev.Attendees = append([]string(nil), ev.Attendees...)
	tbl[ev.ID] = &ev
	return nil
}

func (repo *eventRepository) DeleteEvent(_ context.Context, teamID string, id int64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table[teamID], id)
	return nil
}
