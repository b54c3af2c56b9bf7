package calendar

import (
	"sort"
	"time"
)

const (
	FilterAll = "all"

	// UpcomingLimit is the default number of upcoming events.
	UpcomingLimit = 5

	UpcomingDateLayout = "Jan 2, 2006, 3:04 PM"
)

// Upcoming returns the `limit` events starting the soonest at or after now, earliest first.
// Event instants are read in now's location; ties keep the events order.
func Upcoming(events []Event, now time.Time, limit int) []UpcomingEvent {
	if limit <= 0 {
		limit = UpcomingLimit
	}

	type timedEvent struct {
		ev    Event
		start time.Time
	}
	future := make([]timedEvent, 0, len(events))
	for _, ev := range events {
		start, err := ev.Start(now.Location())
		if err != nil {
			continue
		}
		if !start.Before(now) {
			future = append(future, timedEvent{ev: ev, start: start})
		}
	}
	sort.SliceStable(future, func(i, j int) bool { return future[i].start.Before(future[j].start) })

	if len(future) > limit {
		future = future[:limit]
	}
	upcoming := make([]UpcomingEvent, 0, len(future))
	for _, te := range future {
		upcoming = append(upcoming, UpcomingEvent{
			ID:        te.ev.ID,
			Title:     te.ev.Title,
			Type:      te.ev.Type,
			Date:      te.start.Format(UpcomingDateLayout),
			Attendees: len(te.ev.Attendees),
		})
	}
	return upcoming
}

// FilterByType returns the events of type `typ`, or all of them for FilterAll.
// An unknown type yields no events.
func FilterByType(events []Event, typ string) []Event {
	filtered := make([]Event, 0, len(events))
	for _, ev := range events {
		if typ == FilterAll || string(ev.Type) == typ {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// FilterChoices returns FilterAll followed by the distinct types present in events, in first-seen order.
func FilterChoices(events []Event) []string {
	choices := []string{FilterAll}
	seen := map[EventType]bool{}
	for _, ev := range events {
		if !seen[ev.Type] {
			seen[ev.Type] = true
			choices = append(choices, string(ev.Type))
		}
	}
	return choices
}
