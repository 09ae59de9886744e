package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Display layouts for a placement.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04"
	rangeSeparator = " ~ "
)

// PlacementMode is how a task is placed on the calendar.
type PlacementMode string

const (
	ModeAllDaySingle PlacementMode = "all-day-single"
	ModeTimedSingle  PlacementMode = "timed-single"
	ModeDateRange    PlacementMode = "date-range"
)

// ParsePlacementMode converts a string to a PlacementMode.
// Short aliases "allday", "timed" and "range" are accepted.
func ParsePlacementMode(s string) (PlacementMode, error) {
	switch strings.ToLower(s) {
	case string(ModeAllDaySingle), "allday", "all-day", "date":
		return ModeAllDaySingle, nil
	case string(ModeTimedSingle), "timed", "time":
		return ModeTimedSingle, nil
	case string(ModeDateRange), "range":
		return ModeDateRange, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidPlacement)
}

// Formatter selects how a placement is rendered.
type Formatter int

const (
	FormatterDate Formatter = iota
	FormatterDateTime
	FormatterRange
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// TimeOfDayOf returns the clock part of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// On returns the instant at this time of day on the date of d.
func (tod TimeOfDay) On(d time.Time) time.Time {
	y, mo, day := d.Date()
	return time.Date(y, mo, day, tod.Hour, tod.Minute, 0, 0, d.Location())
}

// String formats as HH:MM.
func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Placement is the canonical stored triple describing where a task sits on the calendar.
type Placement struct {
	Start  *time.Time
	End    *time.Time
	AllDay bool
}

// PlacementOf extracts the stored placement of a task.
func PlacementOf(t *Task) Placement {
	return Placement{Start: cloneTime(t.Start), End: cloneTime(t.End), AllDay: t.AllDay}
}

// Apply writes the placement into the task.
func (p Placement) Apply(t *Task) {
	t.Start = cloneTime(p.Start)
	t.End = cloneTime(p.End)
	t.AllDay = p.AllDay
}

// Mode returns the UI mode of the placement.
func (p Placement) Mode() PlacementMode {
	switch {
	case p.End != nil:
		return ModeDateRange
	case p.AllDay:
		return ModeAllDaySingle
	default:
		return ModeTimedSingle
	}
}

// Validate checks the placement invariants: a timed placement has a start,
// an end requires a start, and End >= Start.
func (p Placement) Validate() error {
	if !p.AllDay && p.Start == nil {
		return fmt.Errorf("timed placement without start: %w", ErrInvalidPlacement)
	}
	if p.End == nil {
		return nil
	}
	if p.Start == nil {
		return fmt.Errorf("range end without start: %w", ErrInvalidPlacement)
	}
	return Interval{Start: *p.Start, End: *p.End}.Validate()
}

// Equal reports whether two placements store the same fields.
func (p Placement) Equal(o Placement) bool {
	return p.AllDay == o.AllDay && timePtrEqual(p.Start, o.Start) && timePtrEqual(p.End, o.End)
}

// SwitchToRange turns a single-date placement into a range ending one day after start.
// An unset start defaults to now. An existing end is kept.
func (p Placement) SwitchToRange(now time.Time) Placement {
	start := now
	if p.Start != nil {
		start = *p.Start
	}
	out := Placement{Start: &start, End: cloneTime(p.End), AllDay: p.AllDay}
	if out.End == nil {
		end := start.AddDate(0, 0, 1)
		out.End = &end
	}
	return out
}

// SwitchToSingle drops the range end, leaving start unchanged.
func (p Placement) SwitchToSingle() Placement {
	return Placement{Start: cloneTime(p.Start), AllDay: p.AllDay}
}

// RemoveTime marks the placement all-day, keeping the date portion of start.
func (p Placement) RemoveTime() Placement {
	out := Placement{End: cloneTime(p.End), AllDay: true}
	if p.Start != nil {
		d := DateOf(*p.Start)
		out.Start = &d
	}
	return out
}

// SetTime makes the placement timed at tod on its start date (today if unset).
func (p Placement) SetTime(tod TimeOfDay, now time.Time) Placement {
	date := now
	if p.Start != nil {
		date = *p.Start
	}
	start := tod.On(date)
	return Placement{Start: &start, End: cloneTime(p.End)}
}

// PlacementFields carries the values of a UI placement change. Nil fields keep
// the current value.
type PlacementFields struct {
	Start *time.Time
	End   *time.Time
	Time  *TimeOfDay
}

// ChangePlacement computes the stored fields for a placement change to mode.
// Start is preserved unless fields override it; leaving range mode discards End
// and entering it without an end uses start + 1 day.
func ChangePlacement(p Placement, mode PlacementMode, f PlacementFields, now time.Time) (Placement, error) {
	cur := p
	if f.Start != nil {
		start := *f.Start
		cur.Start = &start
	}

	var out Placement
	switch mode {
	case ModeAllDaySingle:
		if cur.Start == nil {
			cur.Start = &now
		}
		out = cur.SwitchToSingle().RemoveTime()
	case ModeTimedSingle:
		switch {
		case f.Time != nil:
			out = cur.SetTime(*f.Time, now).SwitchToSingle()
		case f.Start != nil:
			out = Placement{Start: cur.Start}
		case !p.AllDay && p.Start != nil:
			out = p.SwitchToSingle()
		default:
			return Placement{}, fmt.Errorf("timed placement needs a time of day: %w", ErrInvalidPlacement)
		}
	case ModeDateRange:
		if f.Time != nil {
			cur = cur.SetTime(*f.Time, now)
		}
		if f.End != nil {
			end := *f.End
			cur.End = &end
		}
		out = cur.SwitchToRange(now)
	default:
		return Placement{}, fmt.Errorf("%q: %w", mode, ErrInvalidPlacement)
	}

	if err := out.Validate(); err != nil {
		return Placement{}, err
	}
	return out, nil
}

// Formatter chooses the display formatter from AllDay and the presence of End only.
func (p Placement) Formatter() Formatter {
	switch {
	case p.End != nil:
		return FormatterRange
	case p.AllDay:
		return FormatterDate
	default:
		return FormatterDateTime
	}
}

// Format renders the placement for display. Unscheduled placements render empty.
func (p Placement) Format() string {
	if p.Start == nil {
		return ""
	}
	layout := DateTimeFormat
	if p.AllDay {
		layout = DateFormat
	}
	switch p.Formatter() {
	case FormatterRange:
		return p.Start.Format(layout) + rangeSeparator + p.End.Format(layout)
	case FormatterDate:
		return p.Start.Format(DateFormat)
	default:
		return p.Start.Format(DateTimeFormat)
	}
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
