package calendar

import (
	"sort"
	"sync"
	"time"
)

// Store is the in-memory collection of one team's events,
// kept sorted by date then time.
type Store struct {
	mu     sync.RWMutex
	events []Event
	lastID int64
}

func NewStore(initial []Event) *Store {
	s := &Store{events: make([]Event, 0, len(initial))}
	for _, ev := range initial {
		s.events = append(s.events, ev.clone())
		if ev.ID > s.lastID {
			s.lastID = ev.ID
		}
	}
	s.sort()
	return s
}

func (s *Store) sort() {
	sort.SliceStable(s.events, func(i, j int) bool {
		if s.events[i].Date != s.events[j].Date {
			return s.events[i].Date < s.events[j].Date
		}
		mi, mj := eventMinutes(s.events[i]), eventMinutes(s.events[j])
		if mi < 0 || mj < 0 {
			return s.events[i].Time < s.events[j].Time
		}
		return mi < mj
	})
}

func (s *Store) indexOf(id int64) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// NextID returns an id unused by the store: now in milliseconds,
// bumped past every id issued so far.
func (s *Store) NextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixNano() / int64(time.Millisecond)
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for s.indexOf(id) >= 0 {
		id++
	}
	s.lastID = id
	return id
}

// Insert adds ev. An event with the same id is replaced.
func (s *Store) Insert(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(ev.ID); i >= 0 {
		s.events[i] = ev.clone()
	} else {
		s.events = append(s.events, ev.clone())
	}
	if ev.ID > s.lastID {
		s.lastID = ev.ID
	}
	s.sort()
}

// Replace overwrites the event holding ev.ID.
func (s *Store) Replace(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(ev.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.events[i] = ev.clone()
	s.sort()
	return nil
}

func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return nil
}

func (s *Store) Get(id int64) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Event{}, ErrNotFound
	}
	return s.events[i].clone(), nil
}

// List returns a copy of the events, sorted by date then time.
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev.clone())
	}
	return events
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
