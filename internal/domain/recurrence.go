package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// RepeatKind is the repeater flavour of a recurring task.
type RepeatKind string

const (
	RepeatCumulate RepeatKind = "+"  // Shift by the interval once
	RepeatCatchUp  RepeatKind = "++" // Shift until the next future occurrence
	RepeatRestart  RepeatKind = ".+" // Shift from the completion time
)

// RepeatUnit is the unit of a repeater interval.
type RepeatUnit string

const (
	UnitHour  RepeatUnit = "h"
	UnitDay   RepeatUnit = "d"
	UnitWeek  RepeatUnit = "w"
	UnitMonth RepeatUnit = "m"
	UnitYear  RepeatUnit = "y"
)

// maxOccurrences bounds the occurrences ExpandOccurrences returns for one window.
const maxOccurrences = 1000

var repeaterPattern = regexp.MustCompile(`^(\.\+|\+\+|\+)(\d+)([hdwmy])$`)

// RecurrenceRule is a repeater such as "+1w" or ".+2d".
type RecurrenceRule struct {
	Kind     RepeatKind
	Unit     RepeatUnit
	Interval int
}

// ParseRecurrenceRule parses repeater syntax.
func ParseRecurrenceRule(s string) (*RecurrenceRule, error) {
	m := repeaterPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidRecurrence)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidRecurrence)
	}
	return &RecurrenceRule{Kind: RepeatKind(m[1]), Interval: n, Unit: RepeatUnit(m[3])}, nil
}

// String returns the repeater syntax.
func (r RecurrenceRule) String() string {
	return string(r.Kind) + strconv.Itoa(r.Interval) + string(r.Unit)
}

// Advance returns t shifted by n intervals.
func (r RecurrenceRule) Advance(t time.Time, n int) time.Time {
	k := r.Interval * n
	switch r.Unit {
	case UnitHour:
		return t.Add(time.Duration(k) * time.Hour)
	case UnitWeek:
		return t.AddDate(0, 0, 7*k)
	case UnitMonth:
		return t.AddDate(0, k, 0)
	case UnitYear:
		return t.AddDate(k, 0, 0)
	default:
		return t.AddDate(0, 0, k)
	}
}

// indexBefore returns an occurrence index whose start is before threshold and
// close to the last such occurrence, or 0 when start is not before threshold.
func (r RecurrenceRule) indexBefore(start, threshold time.Time) int {
	if !start.Before(threshold) {
		return 0
	}
	var n int
	switch r.Unit {
	case UnitHour:
		n = int(threshold.Sub(start) / time.Hour)
	case UnitWeek:
		n = int(threshold.Sub(start) / (7 * 24 * time.Hour))
	case UnitMonth:
		n = (threshold.Year()-start.Year())*12 + int(threshold.Month()-start.Month())
	case UnitYear:
		n = threshold.Year() - start.Year()
	default:
		n = int(threshold.Sub(start) / (24 * time.Hour))
	}
	n /= r.Interval
	for n > 0 && !r.Advance(start, n).Before(threshold) {
		n--
	}
	return n
}

// IsScheduleLocked reports whether scheduling fields are read-only: the task
// is a recurring definition or a materialized past occurrence.
func (t *Task) IsScheduleLocked() bool {
	return t.RRule != nil || t.RecurringPast
}

// EnsureEditable returns ErrEditLocked for schedule-locked tasks.
func EnsureEditable(t *Task) error {
	if t.IsScheduleLocked() {
		return fmt.Errorf("task %s: %w", t.ID, ErrEditLocked)
	}
	return nil
}

// ExpandOccurrences materializes the occurrences of a recurring task whose start
// falls in [from, to). The first occurrence is the definition itself; later ones
// whose start is before now are marked RecurringPast. Non-recurring or
// unscheduled tasks are returned unchanged when their start is in the window.
func ExpandOccurrences(t *Task, from, to, now time.Time) []*Task {
	if t.Start == nil {
		return nil
	}
	if t.RRule == nil {
		if t.Start.Before(to) && !endOf(t).Before(from) {
			return []*Task{t}
		}
		return nil
	}

	var span time.Duration
	if t.End != nil {
		span = t.End.Sub(*t.Start)
	}
	var out []*Task
	for i := t.RRule.indexBefore(*t.Start, from.Add(-span)); len(out) < maxOccurrences; i++ {
		start := t.RRule.Advance(*t.Start, i)
		if !start.Before(to) {
			break
		}
		end := start.Add(span)
		if end.Before(from) {
			continue
		}
		occ := t.Clone()
		occ.Start = &start
		if t.End != nil {
			occ.End = &end
		}
		if i > 0 {
			occ.RecurringPast = start.Before(now)
		}
		out = append(out, occ)
	}
	return out
}

func endOf(t *Task) time.Time {
	if t.End != nil {
		return *t.End
	}
	return *t.Start
}
