package calendar

import "context"

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type (
	Variant string

	// Notification is the human readable summary of a calendar mutation.
	Notification struct {
		TeamID      string  `json:"-"`
		Title       string  `json:"title"`
		Description string  `json:"description,omitempty"`
		Variant     Variant `json:"variant"`
	}

	// Notifier receives a Notification for every attempted mutation.
	Notifier interface {
		Notify(n Notification)
	}

	// NotifierFunc adapts a function to the Notifier interface.
	NotifierFunc func(n Notification)
)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// IsFailure reports whether n reports a failed mutation.
func (n Notification) IsFailure() bool { return n.Variant == VariantDestructive }

type notifierKey struct{}

// WithNotifier returns a copy of ctx; session mutations run with it also notify n.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func notifierFrom(ctx context.Context) Notifier {
	n, _ := ctx.Value(notifierKey{}).(Notifier)
	return n
}
