package calendar

import "time"

// Event types
const (
	TypeMeeting  EventType = "meeting"
	TypeReview   EventType = "review"
	TypePlanning EventType = "planning"
	TypeWorkshop EventType = "workshop"
)

const (
	DefaultLocation = "Virtual"
	DefaultAttendee = "You"

	ColorCreated = "blue"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	EventTypes = []EventType{TypeMeeting, TypeReview, TypePlanning, TypeWorkshop}

	// Durations are the allowed event lengths, in minutes.
	Durations = []int{30, 60, 90}

	// NowFunc returns the current time.
	NowFunc = time.Now // mockable
)

type (
	EventType string

	// Event is a scheduled item of a team calendar.
	Event struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Date        string    `json:"date"` // YYYY-MM-DD
		Time        string    `json:"time"` // HH:MM
		Duration    int       `json:"duration"`
		Type        EventType `json:"type"`
		Attendees   []string  `json:"attendees"`
		Location    string    `json:"location"`
		Color       string    `json:"color,omitempty"`
	}

	// EventInput holds the normalized mutable fields of an Event.
	// Nil Attendees keep the current attendees on update and default to the creator on create.
	EventInput struct {
		Title       string
		Description string
		Date        string
		Time        string
		Duration    int
		Type        EventType
		Attendees   []string
		Location    string
		Color       string
	}

	// UpcomingEvent is the compact view of a future Event.
	UpcomingEvent struct {
		ID        int64     `json:"id"`
		Title     string    `json:"title"`
		Type      EventType `json:"type"`
		Date      string    `json:"date"`      // display date & time
		Attendees int       `json:"attendees"` // count
	}
)

func (t EventType) IsValid() bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Start returns the instant the event starts at, in loc.
func (ev Event) Start(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, ev.Date+" "+ev.Time, loc)
}

func (ev Event) clone() Event {
	if ev.Attendees != nil {
		ev.Attendees = append([]string(nil), ev.Attendees...)
	}
	return ev
}

// apply sets every mutable field of ev from in.
func (ev *Event) apply(in EventInput) {
	ev.Title = in.Title
	ev.Description = in.Description
	ev.Date = in.Date
	ev.Time = in.Time
	ev.Duration = in.Duration
	ev.Type = in.Type
	ev.Location = in.Location
	if in.Attendees != nil {
		ev.Attendees = append([]string(nil), in.Attendees...)
	}
	if in.Color != "" {
		ev.Color = in.Color
	}
}

// Input returns the mutable fields of ev.
func (ev Event) Input() EventInput {
	return EventInput{
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Time:        ev.Time,
		Duration:    ev.Duration,
		Type:        ev.Type,
		Attendees:   append([]string(nil), ev.Attendees...),
		Location:    ev.Location,
		Color:       ev.Color,
	}
}
