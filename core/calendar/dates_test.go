package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "january", date: date(2025, time.January, 15), want: 31},
		{name: "april", date: date(2025, time.April, 30), want: 30},
		{name: "february", date: date(2025, time.February, 1), want: 28},
		{name: "february leap year", date: date(2024, time.February, 10), want: 29},
		{name: "february century", date: date(1900, time.February, 10), want: 28},
		{name: "february 400 years", date: date(2000, time.February, 10), want: 29},
		{name: "december", date: date(2025, time.December, 31), want: 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.date); got != tt.want {
				t.Errorf("failed! DaysInMonth() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestFirstWeekdayOffset(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "march 2025 starts on saturday", date: date(2025, time.March, 10), want: 6},
		{name: "june 2025 starts on sunday", date: date(2025, time.June, 30), want: 0},
		{name: "september 2025 starts on monday", date: date(2025, time.September, 1), want: 1},
		{name: "february 2024 starts on thursday", date: date(2024, time.February, 29), want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstWeekdayOffset(tt.date); got != tt.want {
				t.Errorf("failed! FirstWeekdayOffset() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "zero padded", date: date(2025, time.March, 5), want: "2025-03-05"},
		{name: "late evening west of UTC", date: time.Date(2025, time.March, 10, 23, 30, 0, 0, newYork), want: "2025-03-10"},
		{name: "early morning east of UTC", date: time.Date(2025, time.March, 10, 0, 30, 0, 0, tokyo), want: "2025-03-10"},
		{name: "year padding", date: date(987, time.January, 1), want: "0987-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalDate(tt.date); got != tt.want {
				t.Errorf("failed! CanonicalDate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		n    int
		day  int
		want time.Time
	}{
		{name: "plain", date: date(2025, time.March, 10), n: 1, day: 10, want: date(2025, time.April, 10)},
		{name: "clamp to february", date: date(2025, time.January, 31), n: 1, day: 31, want: date(2025, time.February, 28)},
		{name: "clamp to leap february", date: date(2024, time.January, 31), n: 1, day: 31, want: date(2024, time.February, 29)},
		{name: "anchor restored", date: date(2025, time.February, 28), n: 1, day: 31, want: date(2025, time.March, 31)},
		{name: "backward over year", date: date(2025, time.January, 15), n: -1, day: 15, want: date(2024, time.December, 15)},
		{name: "clamp to 30 days", date: date(2025, time.May, 31), n: -1, day: 31, want: date(2025, time.April, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, AddMonths(tt.date, tt.n, tt.day).Equal(tt.want), "AddMonths() = %v; want %v", AddMonths(tt.date, tt.n, tt.day), tt.want)
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-03-12 is a wednesday
	got := StartOfWeek(time.Date(2025, time.March, 12, 15, 4, 0, 0, time.UTC))
	if want := date(2025, time.March, 9); !got.Equal(want) {
		t.Errorf("failed! StartOfWeek() = %v; want %v", got, want)
	}
	// sunday is its own week start
	got = StartOfWeek(date(2025, time.March, 9))
	if want := date(2025, time.March, 9); !got.Equal(want) {
		t.Errorf("failed! StartOfWeek() = %v; want %v", got, want)
	}
}
