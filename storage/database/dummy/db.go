package dummydb

import (
	"sync"

	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

type (
	// DB is an in-memory database, used for tests and local runs without Postgres.
	DB struct {
		team  *teamTable
		event *eventTable
	}

	teamTable struct {
		sync.RWMutex
		table map[string]*team.Team
	}

	eventTable struct {
		sync.RWMutex
		table map[string]map[int64]*calendar.Event // by team ID
	}
)

func Open() (*DB, error) {
	db := &DB{
		team:  &teamTable{table: make(map[string]*team.Team)},
		event: &eventTable{table: make(map[string]map[int64]*calendar.Event)},
	}
	return db, nil
}
