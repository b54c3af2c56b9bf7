package calendar

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrSessionClosed = errors.New("calendar session closed")
	ErrInvalidView   = errors.New("invalid calendar view")
)

// TransientError wraps a failure of the persistence step.
// The store is left untouched when it happens.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "saving calendar changes: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err was caused by a persistence failure.
func IsTransient(err error) bool {
	_, ok := errors.Cause(err).(*TransientError)
	return ok
}
