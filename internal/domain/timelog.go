package domain

import (
	"fmt"
	"slices"
	"time"
)

// DefaultTimeLogDuration is the span of a time log added without explicit bounds.
const DefaultTimeLogDuration Minutes = 30

// TimeLog is one recorded interval of work on a task.
// Amount may differ from End-Start, e.g. after rounding.
type TimeLog struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Amount Minutes   `json:"amount"`
}

// NewTimeLog creates a log whose amount equals its span.
func NewTimeLog(start, end time.Time) (TimeLog, error) {
	amount, err := Duration(start, end)
	if err != nil {
		return TimeLog{}, err
	}
	return TimeLog{Start: start, End: end, Amount: amount}, nil
}

// Validate checks End >= Start and Amount >= 0.
func (l TimeLog) Validate() error {
	if err := (Interval{Start: l.Start, End: l.End}).Validate(); err != nil {
		return err
	}
	if l.Amount < 0 {
		return fmt.Errorf("negative amount %d: %w", l.Amount, ErrInvalidInterval)
	}
	return nil
}

// Equal reports whether two logs cover the same instants with the same amount.
func (l TimeLog) Equal(o TimeLog) bool {
	return l.Start.Equal(o.Start) && l.End.Equal(o.End) && l.Amount == o.Amount
}

// Interval returns the span covered by the log.
func (l TimeLog) Interval() Interval {
	return Interval{Start: l.Start, End: l.End}
}

// Ledger appends default-placed time logs.
type Ledger struct {
	DefaultDuration Minutes
}

// NewLedger creates a Ledger. A non-positive duration falls back to DefaultTimeLogDuration.
func NewLedger(defaultDuration Minutes) Ledger {
	if defaultDuration <= 0 {
		defaultDuration = DefaultTimeLogDuration
	}
	return Ledger{DefaultDuration: defaultDuration}
}

// Next computes the log that AddDefault would append without modifying anything.
//
// With an empty ledger the log starts at the task start for timed tasks, otherwise
// it ends at now. With existing logs it starts DefaultDuration after the last
// entry's end (the last entry in insertion order, not the latest in time).
func (l Ledger) Next(logs []TimeLog, p Placement, now time.Time) TimeLog {
	d := l.DefaultDuration.Duration()
	start := now.Add(-d)
	if p.Start != nil && !p.AllDay {
		start = *p.Start
	}
	if n := len(logs); n > 0 {
		start = logs[n-1].End.Add(d)
	}
	return TimeLog{Start: start, End: start.Add(d), Amount: l.DefaultDuration}
}

// AddDefault appends a default log to the task and returns it.
func (l Ledger) AddDefault(t *Task, now time.Time) TimeLog {
	log := l.Next(t.TimeLogs, PlacementOf(t), now)
	t.TimeLogs = append(t.TimeLogs, log)
	return log
}

// ReplaceTimeLog returns a copy of logs with the entry at index replaced.
func ReplaceTimeLog(logs []TimeLog, index int, log TimeLog) ([]TimeLog, error) {
	if index < 0 || index >= len(logs) {
		return nil, fmt.Errorf("index %d of %d: %w", index, len(logs), ErrIndexOutOfRange)
	}
	if err := log.Validate(); err != nil {
		return nil, err
	}
	out := slices.Clone(logs)
	out[index] = log
	return out, nil
}

// DeleteTimeLog returns a copy of logs without the entry at index.
func DeleteTimeLog(logs []TimeLog, index int) ([]TimeLog, error) {
	if index < 0 || index >= len(logs) {
		return nil, fmt.Errorf("index %d of %d: %w", index, len(logs), ErrIndexOutOfRange)
	}
	return slices.Delete(slices.Clone(logs), index, index+1), nil
}

// UpdateTimeLog replaces the log at index on the task.
func (t *Task) UpdateTimeLog(index int, log TimeLog) error {
	logs, err := ReplaceTimeLog(t.TimeLogs, index, log)
	if err != nil {
		return err
	}
	t.TimeLogs = logs
	return nil
}

// RemoveTimeLog removes the log at index from the task.
func (t *Task) RemoveTimeLog(index int) error {
	logs, err := DeleteTimeLog(t.TimeLogs, index)
	if err != nil {
		return err
	}
	t.TimeLogs = logs
	return nil
}

// ActualTime sums the amounts of logs.
func ActualTime(logs []TimeLog) Minutes {
	var total Minutes
	for _, l := range logs {
		total += l.Amount
	}
	return total
}
