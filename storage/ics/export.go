// Package ics converts team calendars to and from iCalendar (RFC 5545) data.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

const (
	ProductID = "-//ITC Hub//Team Calendar//EN"
	uidDomain = "itchub"
)

// EventUID returns the stable UID of event `id` of team `teamID`.
func EventUID(teamID string, id int64) string {
	return fmt.Sprintf("%d-%s@%s", id, teamID, uidDomain)
}

// Export serializes the events of t as a published VCALENDAR.
// Event dates and times are read in loc.
func Export(t team.Team, events []calendar.Event, loc *time.Location) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName(t.Name)

	stamp := calendar.NowFunc().UTC()
	for _, ev := range events {
		start, err := ev.Start(loc)
		if err != nil {
			return "", errors.Wrapf(err, "exporting event %d", ev.ID)
		}

		vev := cal.AddEvent(EventUID(t.ID, ev.ID))
		vev.SetDtStampTime(stamp)
		vev.SetStartAt(start)
		vev.SetEndAt(start.Add(time.Duration(ev.Duration) * time.Minute))
		vev.SetSummary(ev.Title)
		if ev.Description != "" {
			vev.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vev.SetLocation(ev.Location)
		}
		vev.SetProperty(ical.ComponentPropertyCategories, string(ev.Type))
		for _, name := range ev.Attendees {
			vev.AddAttendee(name, &ical.KeyValues{Key: string(ical.ParameterCn), Value: []string{name}})
		}
	}
	return cal.Serialize(), nil
}
