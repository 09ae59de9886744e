package domain

import (
	"fmt"
	"time"
)

// Minutes is a whole number of minutes.
type Minutes int

// Duration converts m to a time.Duration.
func (m Minutes) Duration() time.Duration {
	return time.Duration(m) * time.Minute
}

// String formats m as "1h30m" style text; zero is "0m".
func (m Minutes) String() string {
	if m < 60 {
		return fmt.Sprintf("%dm", int(m))
	}
	h, rest := int(m)/60, int(m)%60
	if rest == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, rest)
}

// Interval is a closed span of time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrInvalidInterval when End is before Start.
func (iv Interval) Validate() error {
	if iv.End.Before(iv.Start) {
		return fmt.Errorf("%s > %s: %w", iv.Start.Format(DateTimeFormat), iv.End.Format(DateTimeFormat), ErrInvalidInterval)
	}
	return nil
}

// Duration returns the length of the interval in whole minutes.
func (iv Interval) Duration() (Minutes, error) {
	return Duration(iv.Start, iv.End)
}

// Duration returns end - start truncated to whole minutes.
func Duration(start, end time.Time) (Minutes, error) {
	if err := (Interval{Start: start, End: end}).Validate(); err != nil {
		return 0, err
	}
	return Minutes(end.Sub(start) / time.Minute), nil
}

// Overlaps reports whether a and b share any instant.
func Overlaps(a, b Interval) bool {
	return !a.End.Before(b.Start) && !b.End.Before(a.Start)
}
