package sqlxrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchub/itchub/core/calendar"
)

func TestEventRow(t *testing.T) {
	ev := calendar.Event{
		ID:       1741600000000,
		Title:    "Sprint Review",
		Date:     "2025-03-12",
		Time:     "10:00",
		Duration: 30,
		Type:     calendar.TypeReview,
		Location: "Lab 2",
		Color:    calendar.ColorCreated,
	}

	row, err := newEventRow("team-1", ev)
	require.NoError(t, err)
	assert.False(t, row.Description.Valid, "empty description should be stored as NULL")
	assert.True(t, row.Location.Valid)
	assert.NotNil(t, row.Attendees, "attendees column is NOT NULL")

	got := row.event()
	ev.Attendees = []string{}
	assert.Equal(t, ev, got)

	_, err = newEventRow("team-1", calendar.Event{ID: 2, Date: "2025-02-30"})
	assert.Error(t, err)
}
