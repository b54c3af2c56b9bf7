package ics

import (
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"

	"github.com/itchub/itchub/core/calendar"
)

const (
	DefaultMaxPerEvent = 100
	untitled           = "Untitled event"
	// minTitleLength mirrors the form's title rule.
	minTitleLength = 3

	recurrenceID ical.ComponentProperty = "RECURRENCE-ID"
)

// ImportOptions bound the expansion of recurring events.
type ImportOptions struct {
	// Location is the calendar timezone events are converted to.
	Location *time.Location
	// From / To is the window recurring events are expanded in.
	From, To time.Time
	// MaxPerEvent caps the occurrences of one recurring event.
	MaxPerEvent int
}

type vevent struct {
	uid         string
	summary     string
	description string
	location    string
	categories  string
	attendees   []string
	start       time.Time
	duration    time.Duration
	allDay      bool
	rrule       string
	exdates     []time.Time
	recurrence  *time.Time
}

// Import reads the VEVENTs of an iCalendar stream and turns every occurrence
// into an EventInput ready for calendar.Session.Create.
// VEVENTs that cannot be read are skipped; their UIDs are returned.
func Import(r io.Reader, opts ImportOptions) ([]calendar.EventInput, []string, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxPerEvent <= 0 {
		opts.MaxPerEvent = DefaultMaxPerEvent
	}
	if opts.To.Before(opts.From) {
		return nil, nil, errors.New("import window ends before it starts")
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing calendar")
	}

	var (
		bases     []vevent
		overrides = make(map[string][]vevent)
		skipped   []string
	)
	for _, comp := range cal.Events() {
		ve, err := parseVEvent(comp)
		if err != nil {
			skipped = append(skipped, ve.uid)
			continue
		}
		if ve.recurrence != nil {
			overrides[ve.uid] = append(overrides[ve.uid], ve)
			continue
		}
		bases = append(bases, ve)
	}

	inputs := make([]calendar.EventInput, 0, len(bases))
	for _, ve := range bases {
		if ve.rrule == "" {
			inputs = append(inputs, ve.input(ve.start, opts.Location))
			continue
		}
		occurrences, err := expand(ve, opts)
		if err != nil {
			skipped = append(skipped, ve.uid)
			continue
		}
		for _, start := range occurrences {
			occ := ve
			if ov, ok := findOverride(overrides[ve.uid], start); ok {
				occ, start = ov, ov.start
			}
			inputs = append(inputs, occ.input(start, opts.Location))
		}
	}
	return inputs, skipped, nil
}

func parseVEvent(comp *ical.VEvent) (vevent, error) {
	var ve vevent
	prop := func(name ical.ComponentProperty) string {
		if p := comp.GetProperty(name); p != nil {
			return strings.TrimSpace(p.Value)
		}
		return ""
	}

	ve.uid = prop(ical.ComponentPropertyUniqueId)
	if ve.uid == "" {
		return ve, errors.New("missing UID")
	}
	ve.summary = prop(ical.ComponentPropertySummary)
	ve.description = prop(ical.ComponentPropertyDescription)
	ve.location = prop(ical.ComponentPropertyLocation)
	ve.categories = prop(ical.ComponentPropertyCategories)
	ve.rrule = prop(ical.ComponentPropertyRrule)

	if p := comp.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		ve.allDay = !strings.Contains(p.Value, "T") || hasParam(p.ICalParameters, "VALUE", "DATE")
	}
	getStart, getEnd := comp.GetStartAt, comp.GetEndAt
	if ve.allDay {
		getStart, getEnd = comp.GetAllDayStartAt, comp.GetAllDayEndAt
	}
	start, err := getStart()
	if err != nil {
		return ve, errors.Wrap(err, "reading DTSTART")
	}
	ve.start = start
	if end, err := getEnd(); err == nil && end.After(start) {
		ve.duration = end.Sub(start)
	}

	for _, p := range comp.GetProperties(ical.ComponentPropertyAttendee) {
		ve.attendees = append(ve.attendees, attendeeName(p))
	}
	for _, p := range comp.GetProperties(ical.ComponentPropertyExdate) {
		loc := paramLocation(p.ICalParameters, start.Location())
		for _, v := range strings.Split(p.Value, ",") {
			if t, err := parseTime(v, loc); err == nil {
				ve.exdates = append(ve.exdates, t)
			}
		}
	}
	if p := comp.GetProperty(recurrenceID); p != nil {
		t, err := parseTime(p.Value, paramLocation(p.ICalParameters, start.Location()))
		if err != nil {
			return ve, errors.Wrap(err, "reading RECURRENCE-ID")
		}
		ve.recurrence = &t
	}
	return ve, nil
}

func expand(ve vevent, opts ImportOptions) ([]time.Time, error) {
	r, err := rrule.StrToRRule(ve.rrule)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing RRULE %q", ve.rrule)
	}
	r.DTStart(ve.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ve.exdates {
		set.ExDate(ex.In(ve.start.Location()))
	}

	occurrences := set.Between(opts.From.In(ve.start.Location()), opts.To.In(ve.start.Location()), true)
	if len(occurrences) > opts.MaxPerEvent {
		occurrences = occurrences[:opts.MaxPerEvent]
	}
	return occurrences, nil
}

func findOverride(overrides []vevent, start time.Time) (vevent, bool) {
	for _, ov := range overrides {
		if ov.recurrence.Equal(start) {
			return ov, true
		}
	}
	return vevent{}, false
}

func (ve vevent) input(start time.Time, loc *time.Location) calendar.EventInput {
	in := calendar.EventInput{
		Title:       ve.summary,
		Description: ve.description,
		Duration:    snapDuration(ve.duration),
		Type:        eventType(ve.categories),
		Attendees:   ve.attendees,
		Location:    ve.location,
	}
	if ve.allDay {
		// all-day events keep their own date, at midnight
		in.Date = calendar.CanonicalDate(start)
		in.Time = "00:00"
		in.Duration = 60
	} else {
		start = start.In(loc)
		in.Date = calendar.CanonicalDate(start)
		in.Time = start.Format(calendar.TimeLayout)
	}
	if in.Title == "" {
		in.Title = untitled
	} else if utf8.RuneCountInString(in.Title) < minTitleLength {
		// "1:1" becomes "1:1 (meeting)"
		in.Title = in.Title + " (" + string(in.Type) + ")"
	}
	if in.Location == "" {
		in.Location = calendar.DefaultLocation
	}
	return in
}

// snapDuration returns the allowed duration closest to d, the shorter one on ties.
// Unknown durations are an hour long.
func snapDuration(d time.Duration) int {
	if d <= 0 {
		return 60
	}
	minutes := d.Minutes()
	best, bestDiff := calendar.Durations[0], math.Inf(1)
	for _, allowed := range calendar.Durations {
		if diff := math.Abs(minutes - float64(allowed)); diff < bestDiff {
			best, bestDiff = allowed, diff
		}
	}
	return best
}

// eventType returns the first category naming an event type, meeting otherwise.
func eventType(categories string) calendar.EventType {
	for _, c := range strings.Split(categories, ",") {
		if t := calendar.EventType(strings.ToLower(strings.TrimSpace(c))); t.IsValid() {
			return t
		}
	}
	return calendar.TypeMeeting
}

func attendeeName(p *ical.IANAProperty) string {
	if cn, ok := p.ICalParameters[string(ical.ParameterCn)]; ok && len(cn) > 0 && cn[0] != "" {
		return cn[0]
	}
	if strings.HasPrefix(strings.ToLower(p.Value), "mailto:") {
		return p.Value[len("mailto:"):]
	}
	return p.Value
}

func hasParam(params map[string][]string, key, value string) bool {
	for _, v := range params[key] {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func paramLocation(params map[string][]string, fallback *time.Location) *time.Location {
	if tz, ok := params["TZID"]; ok && len(tz) > 0 {
		if loc, err := time.LoadLocation(tz[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseTime reads a DATE or DATE-TIME value, floating ones in loc.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
