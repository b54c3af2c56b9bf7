package calendar

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type (
	// Repository is the durable store behind team calendars.
	Repository interface {
		QueryEvents(ctx context.Context, teamID string) ([]Event, error)
		// SaveEvent creates or replaces the event.
		SaveEvent(ctx context.Context, teamID string, ev Event) error
		DeleteEvent(ctx context.Context, teamID string, id int64) error
	}

	// EventMutator is implemented by Session.
	EventMutator interface {
		Create(ctx context.Context, in EventInput) (Event, error)
		Update(ctx context.Context, id int64, in EventInput) (Event, error)
		Get(id int64) (Event, error)
	}
)

// Session is the calendar of one team: its Store plus the operations mutating it.
//
// A mutation first goes through the Repository and only touches the Store once
// that step succeeded, so a failure never leaves a partial change behind.
// Mutations of a session are serialized; two edits of the same event are
// applied in turn and the last one wins, without merging.
type Session struct {
	teamID   string
	store    *Store
	repo     Repository // optional
	notifier Notifier   // optional

	opMu   sync.Mutex
	mu     sync.RWMutex
	closed bool
}

var _ EventMutator = (*Session)(nil)

func NewSession(teamID string, initial []Event, repo Repository, notifier Notifier) *Session {
	return &Session{
		teamID:   teamID,
		store:    NewStore(initial),
		repo:     repo,
		notifier: notifier,
	}
}

func (s *Session) TeamID() string { return s.teamID }

// List returns a snapshot of the team's events.
func (s *Session) List() []Event { return s.store.List() }

func (s *Session) Get(id int64) (Event, error) { return s.store.Get(id) }

// Close tears the session down. Mutations still in flight complete without touching the store.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) notify(ctx context.Context, title, description string, variant Variant) {
	ntf := Notification{
		TeamID:      s.teamID,
		Title:       title,
		Description: description,
		Variant:     variant,
	}
	if s.notifier != nil {
		s.notifier.Notify(ntf)
	}
	if n := notifierFrom(ctx); n != nil {
		n.Notify(ntf)
	}
}

func (s *Session) fail(ctx context.Context, action string, err error) error {
	s.notify(ctx, "Failed to "+action+" event", err.Error(), VariantDestructive)
	return err
}

func (s *Session) save(ctx context.Context, ev Event) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveEvent(ctx, s.teamID, ev); err != nil {
		return &TransientError{Err: err}
	}
	return nil
}

// Create adds a new event built from in.
func (s *Session) Create(ctx context.Context, in EventInput) (Event, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.isClosed() {
		return Event{}, ErrSessionClosed
	}

	ev := Event{ID: s.store.NextID(NowFunc()), Color: ColorCreated}
	ev.apply(in)
	if ev.Attendees == nil {
		ev.Attendees = []string{DefaultAttendee}
	}
	if ev.Location == "" {
		ev.Location = DefaultLocation
	}

	if err := s.save(ctx, ev); err != nil {
		return Event{}, s.fail(ctx, "create", err)
	}
	if s.isClosed() {
		return Event{}, ErrSessionClosed
	}
	s.store.Insert(ev)

	s.notify(ctx, "Event Created", ev.Title, VariantDefault)
	return ev.clone(), nil
}

// Update replaces the mutable fields of event `id` with in. The id is kept.
func (s *Session) Update(ctx context.Context, id int64, in EventInput) (Event, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.isClosed() {
		return Event{}, ErrSessionClosed
	}

	ev, err := s.store.Get(id)
	if err != nil {
		return Event{}, s.fail(ctx, "update", err)
	}
	ev.apply(in)
	if ev.Location == "" {
		ev.Location = DefaultLocation
	}

	if err = s.save(ctx, ev); err != nil {
		return Event{}, s.fail(ctx, "update", err)
	}
	if s.isClosed() {
		return Event{}, ErrSessionClosed
	}
	if err = s.store.Replace(ev); err != nil {
		return Event{}, s.fail(ctx, "update", err)
	}

	s.notify(ctx, "Event Updated", ev.Title, VariantDefault)
	return ev.clone(), nil
}

// Delete removes event `id`.
func (s *Session) Delete(ctx context.Context, id int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.isClosed() {
		return ErrSessionClosed
	}

	ev, err := s.store.Get(id)
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	if s.repo != nil {
		if err = s.repo.DeleteEvent(ctx, s.teamID, id); err != nil {
			return s.fail(ctx, "delete", &TransientError{Err: err})
		}
	}
	if s.isClosed() {
		return ErrSessionClosed
	}
	if err = s.store.Remove(id); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.notify(ctx, "Event Deleted", ev.Title, VariantDefault)
	return nil
}

// Sessions holds the open calendar session of each team.
type Sessions struct {
	repo     Repository
	notifier Notifier

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(repo Repository, notifier Notifier) *Sessions {
	return &Sessions{
		repo:     repo,
		notifier: notifier,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session of team `teamID`, loading its events on first use.
func (reg *Sessions) Open(ctx context.Context, teamID string) (*Session, error) {
	reg.mu.Lock()
	s, ok := reg.sessions[teamID]
	reg.mu.Unlock()
	if ok {
		return s, nil
	}

	var initial []Event
	if reg.repo != nil {
		var err error
		if initial, err = reg.repo.QueryEvents(ctx, teamID); err != nil {
			return nil, errors.Wrap(&TransientError{Err: err}, "loading team events")
		}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if s, ok = reg.sessions[teamID]; ok { // opened concurrently
		return s, nil
	}
	s = NewSession(teamID, initial, reg.repo, reg.notifier)
	reg.sessions[teamID] = s
	return s, nil
}

// Close tears down the session of team `teamID`, if open.
func (reg *Sessions) Close(teamID string) {
	reg.mu.Lock()
	s, ok := reg.sessions[teamID]
	delete(reg.sessions, teamID)
	reg.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (reg *Sessions) CloseAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for id, s := range reg.sessions {
		s.Close()
		delete(reg.sessions, id)
	}
}
