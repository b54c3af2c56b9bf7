package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"github.com/google/uuid"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

func CreateTeam(t *testing.T, repo team.Repository, name, slug string, createdAt ...time.Time) team.Team {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	tm, err := repo.CreateTeam(context.Background(), team.Team{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	return tm
}

func CreateEvent(t *testing.T, repo calendar.Repository, teamID string, ev calendar.Event) calendar.Event {
	if err := repo.SaveEvent(context.Background(), teamID, ev); err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return ev
}

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	calendar.InitValidators(validate, translator)
	return validate, translator
}

type (
	// Logger records log entries; it satisfies core.Logger.
	Logger struct {
		mu      sync.Mutex
		Entries []LogEntry
	}

	LogEntry struct {
		Level string
		Msg   string
		Args  []interface{}
	}
)

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Levels returns the level of every entry, in order.
func (l *Logger) Levels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	levels := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		levels = append(levels, e.Level)
	}
	return levels
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}
