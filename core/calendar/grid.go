package calendar

import (
	"sort"
	"strconv"
	"time"
)

const (
	// MaxEventsPerCell is the number of events shown in a month cell.
	MaxEventsPerCell = 2

	// WeekStartHour is the first hour slot of the week grid. The 24 slots
	// wrap past midnight: 08:00 ... 23:00, 00:00 ... 07:00.
	WeekStartHour = 8
)

type (
	MonthCell struct {
		Blank    bool    `json:"blank,omitempty"`
		Date     string  `json:"date,omitempty"`
		Day      int     `json:"day,omitempty"`
		Events   []Event `json:"events,omitempty"`
		Overflow int     `json:"overflow,omitempty"`
	}

	MonthGrid struct {
		Year  int         `json:"year"`
		Month time.Month  `json:"month"`
		Cells []MonthCell `json:"cells"`
	}

	WeekSlot struct {
		Hour  int        `json:"hour"`
		Label string     `json:"label"`
		Days  [7][]Event `json:"days"` // Sunday first
	}

	WeekGrid struct {
		Dates []string   `json:"dates"` // Sunday first
		Slots []WeekSlot `json:"slots"`
	}

	DayGrid struct {
		Date   string  `json:"date"`
		Events []Event `json:"events"`
	}

	// Grid holds the grid of the view it was built for.
	Grid struct {
		View  View       `json:"view"`
		Month *MonthGrid `json:"month,omitempty"`
		Week  *WeekGrid  `json:"week,omitempty"`
		Day   *DayGrid   `json:"day,omitempty"`
	}
)

func eventsByDate(events []Event) map[string][]Event {
	byDate := make(map[string][]Event)
	for _, ev := range events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}
	return byDate
}

// eventMinutes returns the minutes since midnight of ev.Time, or -1.
func eventMinutes(ev Event) int {
	t, err := time.Parse(TimeLayout, ev.Time)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// BuildMonthGrid lays out date's month: leading blank cells up to the first
// weekday, then one cell per day with at most MaxEventsPerCell events.
func BuildMonthGrid(date time.Time, events []Event) MonthGrid {
	offset := FirstWeekdayOffset(date)
	days := DaysInMonth(date)
	byDate := eventsByDate(events)

	grid := MonthGrid{
		Year:  date.Year(),
		Month: date.Month(),
		Cells: make([]MonthCell, 0, offset+days),
	}
	for i := 0; i < offset; i++ {
		grid.Cells = append(grid.Cells, MonthCell{Blank: true})
	}
	for day := 1; day <= days; day++ {
		d := time.Date(date.Year(), date.Month(), day, 0, 0, 0, 0, date.Location())
		cell := MonthCell{Date: CanonicalDate(d), Day: day}
		dayEvents := byDate[cell.Date]
		if len(dayEvents) > MaxEventsPerCell {
			cell.Overflow = len(dayEvents) - MaxEventsPerCell
			dayEvents = dayEvents[:MaxEventsPerCell]
		}
		cell.Events = dayEvents
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}

// BuildWeekGrid buckets the events of date's week (Sunday to Saturday) by hour slot.
func BuildWeekGrid(date time.Time, events []Event) WeekGrid {
	start := StartOfWeek(date)
	grid := WeekGrid{
		Dates: make([]string, 7),
		Slots: make([]WeekSlot, 24),
	}
	dayIndex := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		d := CanonicalDate(start.AddDate(0, 0, i))
		grid.Dates[i] = d
		dayIndex[d] = i
	}
	slotIndex := make(map[int]int, 24)
	for i := range grid.Slots {
		hour := (WeekStartHour + i) % 24
		grid.Slots[i].Hour = hour
		grid.Slots[i].Label = hourLabel(hour)
		slotIndex[hour] = i
	}

	for _, ev := range events {
		day, ok := dayIndex[ev.Date]
		if !ok {
			continue
		}
		mins := eventMinutes(ev)
		if mins < 0 {
			continue
		}
		slot := &grid.Slots[slotIndex[mins/60]]
		slot.Days[day] = append(slot.Days[day], ev)
	}
	return grid
}

func hourLabel(hour int) string {
	if hour < 10 {
		return "0" + strconv.Itoa(hour) + ":00"
	}
	return strconv.Itoa(hour) + ":00"
}

// BuildDayGrid returns the events of date, sorted by time.
func BuildDayGrid(date time.Time, events []Event) DayGrid {
	grid := DayGrid{Date: CanonicalDate(date), Events: make([]Event, 0)}
	for _, ev := range events {
		if ev.Date == grid.Date {
			grid.Events = append(grid.Events, ev)
		}
	}
	sort.SliceStable(grid.Events, func(i, j int) bool {
		return eventMinutes(grid.Events[i]) < eventMinutes(grid.Events[j])
	})
	return grid
}

// BuildGrid builds the grid of nav's view around its current date.
func BuildGrid(nav *Navigator, events []Event) Grid {
	date := nav.CurrentDate()
	grid := Grid{View: nav.View()}
	switch nav.View() {
	case ViewWeek:
		g := BuildWeekGrid(date, events)
		grid.Week = &g
	case ViewDay:
		g := BuildDayGrid(date, events)
		grid.Day = &g
	default:
		g := BuildMonthGrid(date, events)
		grid.Month = &g
	}
	return grid
}
