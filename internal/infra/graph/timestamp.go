package graph

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Timestamp layouts as they appear in the graph.
const (
	stampDate  = "2006-01-02"
	stampTime  = "15:04"
	clockStamp = "2006-01-02 Mon 15:04:05"
)

var (
	stampPattern    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{3})?(?:\s+(\d{1,2}:\d{2}))?(?:\s+((?:\.\+|\+\+|\+)\d+[hdwmy]))?$`)
	clockPattern    = regexp.MustCompile(`^\[([^\]]+)\]--\[([^\]]+)\](?:\s*=>\s*(\d+):(\d{2})(?::(\d{2}))?)?$`)
	scheduleLineRef = regexp.MustCompile(`(SCHEDULED|DEADLINE):\s*<([^>]*)>`)
)

// stamp is a parsed SCHEDULED or DEADLINE timestamp.
type stamp struct {
	Time     time.Time
	Repeater string // e.g. ".+1d"; empty if none
	HasTime  bool
}

// parseStamp parses "2024-01-01 Mon 09:00 .+1d"; everything after the date is optional.
func parseStamp(s string, loc *time.Location) (stamp, error) {
	m := stampPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return stamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	layout, value := stampDate, m[1]
	if m[2] != "" {
		layout, value = stampDate+" "+stampTime, m[1]+" "+zeroPad(m[2])
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return stamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return stamp{Time: t, HasTime: m[2] != "", Repeater: m[3]}, nil
}

// formatStamp renders a timestamp without the angle brackets.
func formatStamp(t time.Time, withTime bool, repeater string) string {
	s := t.Format(stampDate + " Mon")
	if withTime {
		s += " " + t.Format(stampTime)
	}
	if repeater != "" {
		s += " " + repeater
	}
	return s
}

func zeroPad(hhmm string) string {
	if len(hhmm) == 4 {
		return "0" + hhmm
	}
	return hhmm
}

// parseClock parses the text after "CLOCK: ". Running clocks without an end are rejected.
func parseClock(s string, loc *time.Location) (domain.TimeLog, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.TimeLog{}, fmt.Errorf("invalid clock %q", s)
	}
	start, err := time.ParseInLocation(clockStamp, m[1], loc)
	if err != nil {
		return domain.TimeLog{}, fmt.Errorf("invalid clock start %q: %w", m[1], err)
	}
	end, err := time.ParseInLocation(clockStamp, m[2], loc)
	if err != nil {
		return domain.TimeLog{}, fmt.Errorf("invalid clock end %q: %w", m[2], err)
	}
	log, err := domain.NewTimeLog(start, end)
	if err != nil {
		return domain.TimeLog{}, err
	}
	if m[3] != "" {
		h, _ := strconv.Atoi(m[3])
		mins, _ := strconv.Atoi(m[4])
		log.Amount = domain.Minutes(h*60 + mins)
	}
	return log, nil
}

// formatClock renders a log as the text after "CLOCK: ".
func formatClock(log domain.TimeLog, loc *time.Location) string {
	amount := int(log.Amount)
	return fmt.Sprintf("[%s]--[%s] =>  %02d:%02d:00",
		log.Start.In(loc).Format(clockStamp),
		log.End.In(loc).Format(clockStamp),
		amount/60, amount%60)
}

// parseEstimate reads the estimated property: plain minutes or a Go duration such as "1h30m".
func parseEstimate(s string) (domain.Minutes, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return domain.Minutes(n), true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return domain.Minutes(math.Round(d.Minutes())), true
}
