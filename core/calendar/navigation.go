package calendar

import "time"

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"

	DirPrev Direction = "prev"
	DirNext Direction = "next"
)

type (
	View      string
	Direction string
)

func (v View) IsValid() bool {
	return v == ViewMonth || v == ViewWeek || v == ViewDay
}

// Navigator tracks the displayed date and view of a calendar.
//
// Month steps clamp to the last day of the target month. The day-of-month the
// navigator was anchored on is kept across month steps, so Jan 31 -> next ->
// Feb 28 -> prev lands back on Jan 31.
type Navigator struct {
	currentDate time.Time
	view        View
	anchorDay   int
}

func NewNavigator(date time.Time, view View) *Navigator {
	if !view.IsValid() {
		view = ViewMonth
	}
	date = StartOfDay(date)
	return &Navigator{currentDate: date, view: view, anchorDay: date.Day()}
}

func (n *Navigator) CurrentDate() time.Time { return n.currentDate }
func (n *Navigator) View() View             { return n.view }

// SetView changes the view, leaving the date as is.
func (n *Navigator) SetView(v View) error {
	if !v.IsValid() {
		return ErrInvalidView
	}
	n.view = v
	return nil
}

// Navigate steps one view unit backward or forward.
func (n *Navigator) Navigate(dir Direction) {
	step := 1
	if dir == DirPrev {
		step = -1
	}

	switch n.view {
	case ViewMonth:
		n.currentDate = AddMonths(n.currentDate, step, n.anchorDay)
		return // keep the anchor
	case ViewWeek:
		n.currentDate = n.currentDate.AddDate(0, 0, 7*step)
	default:
		n.currentDate = n.currentDate.AddDate(0, 0, step)
	}
	n.anchorDay = n.currentDate.Day()
}

// JumpTo shows the given date in day view.
func (n *Navigator) JumpTo(date time.Time) {
	n.currentDate = StartOfDay(date)
	n.anchorDay = n.currentDate.Day()
	n.view = ViewDay
}

// Today moves to now's date, keeping the view.
func (n *Navigator) Today(now time.Time) {
	n.currentDate = StartOfDay(now)
	n.anchorDay = n.currentDate.Day()
}
