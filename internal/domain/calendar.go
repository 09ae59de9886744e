package domain

import (
	"fmt"
	"time"
)

// Thresholds for rendering timed events.
const (
	showTimeTextAbove = 20 * time.Minute
	smallHeightAtMost = 10 * time.Minute
)

// CalendarEvent is the placement of a task on the calendar grid.
// For all-day events End is exclusive (the day after the last day).
// Fields are ordered to minimize memory padding.
type CalendarEvent struct {
	Start        time.Time
	End          time.Time
	Task         *Task
	ID           string
	Title        string
	AllDay       bool
	Done         bool
	ShowTimeText bool // Long enough to print its time range
	SmallHeight  bool // Short enough to need a compact title
}

// CalendarEventOf derives the calendar placement of a scheduled task.
// Timed tasks without an end last their estimated time, or defaultDuration.
func CalendarEventOf(t *Task, defaultDuration Minutes) (CalendarEvent, bool) {
	if t.Start == nil {
		return CalendarEvent{}, false
	}
	ev := CalendarEvent{
		Task:   t,
		ID:     t.ID,
		Title:  FormatTitle(t.Title),
		AllDay: t.AllDay,
		Done:   t.IsDone(),
		Start:  *t.Start,
	}
	switch {
	case t.AllDay && t.End != nil:
		ev.Start = DateOf(*t.Start)
		ev.End = DateOf(*t.End).AddDate(0, 0, 1)
	case t.AllDay:
		ev.Start = DateOf(*t.Start)
		ev.End = ev.Start.AddDate(0, 0, 1)
	case t.End != nil:
		ev.End = *t.End
	default:
		d := defaultDuration
		if t.EstimatedTime != nil && *t.EstimatedTime > 0 {
			d = *t.EstimatedTime
		}
		ev.End = ev.Start.Add(d.Duration())
	}
	if !ev.AllDay {
		length := ev.End.Sub(ev.Start)
		ev.ShowTimeText = length > showTimeTextAbove
		ev.SmallHeight = length <= smallHeightAtMost
	}
	return ev, true
}

// TimeText renders the time range of a timed event.
func (ev CalendarEvent) TimeText() string {
	if ev.AllDay {
		return ""
	}
	return ev.Start.Format("15:04") + " - " + ev.End.Format("15:04")
}

// CalendarView is the calendar grid layout.
type CalendarView string

const (
	ViewMonth CalendarView = "dayGridMonth"
	ViewWeek  CalendarView = "timeGridWeek"
)

// ParseCalendarView converts a string to a CalendarView; "month" and "week" are accepted.
func ParseCalendarView(s string) (CalendarView, error) {
	switch s {
	case "month", string(ViewMonth):
		return ViewMonth, nil
	case "week", string(ViewWeek):
		return ViewWeek, nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// CalendarWindow returns the half-open range [start, end) shown by view around anchor.
// Month windows are whole weeks covering the month.
func CalendarWindow(view CalendarView, anchor time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	day := DateOf(anchor)
	if view == ViewWeek {
		start := startOfWeek(day, weekStart)
		return start, start.AddDate(0, 0, 7)
	}
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	start := startOfWeek(first, weekStart)
	end := startOfWeek(first.AddDate(0, 1, 0).AddDate(0, 0, 6), weekStart)
	return start, end
}

// Navigate moves the anchor by step views (negative = back, zero = today).
func Navigate(view CalendarView, anchor time.Time, step int, now time.Time) time.Time {
	if step == 0 {
		return DateOf(now)
	}
	if view == ViewWeek {
		return anchor.AddDate(0, 0, 7*step)
	}
	return anchor.AddDate(0, step, 0)
}

// ExtractDays lists every date from start to end inclusive.
func ExtractDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := DateOf(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return DateOf(day).AddDate(0, 0, -offset)
}
