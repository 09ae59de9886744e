// Package domain contains core business entities and interfaces.
package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// Task is a schedulable unit of work backed by a block in the graph.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start         *time.Time      // Start date or date-time (nil = unscheduled)
	End           *time.Time      // Range end (nil = single date)
	EstimatedTime *Minutes        // Planned duration (nil = not estimated)
	RRule         *RecurrenceRule // Repeater of a recurring definition
	ID            string          // Block uuid
	Title         string          // Title, may embed #Page references
	ProjectID     string          // Owning page name
	Status        Status          // todo or done
	Project       Project         // Resolved owning page
	RawBlock      RawBlock        // Block as last read from the store
	Filters       []FilterID      // Active filters this task matches
	TimeLogs      []TimeLog       // Logged intervals in entry order
	AllDay        bool            // No time-of-day component
	RecurringPast bool            // Materialized past occurrence of a recurring task
}

// Project describes the page owning a task.
type Project struct {
	ID           string
	OriginalName string
	JournalDay   int // yyyymmdd for journal pages, 0 otherwise
	IsJournal    bool
	IsFavorite   bool
}

// ActualTime returns the sum of all logged amounts.
func (t *Task) ActualTime() Minutes {
	return ActualTime(t.TimeLogs)
}

// IsDone returns true if the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsScheduled returns true if the task has a start date.
func (t *Task) IsScheduled() bool {
	return t.Start != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Start = cloneTime(t.Start)
	c.End = cloneTime(t.End)
	if t.EstimatedTime != nil {
		est := *t.EstimatedTime
		c.EstimatedTime = &est
	}
	if t.RRule != nil {
		r := *t.RRule
		c.RRule = &r
	}
	c.Filters = slices.Clone(t.Filters)
	c.TimeLogs = slices.Clone(t.TimeLogs)
	c.RawBlock = t.RawBlock.Clone()
	return &c
}

var (
	bracketRefPattern = regexp.MustCompile(`#?\[\[([^\]]+)\]\]`)
	hashRefPattern    = regexp.MustCompile(`(?:^|\s)#([^\s#\[\]]+)`)
)

// PageRefs returns the page names referenced in the title, bracketed references first.
// Both "#Page", "#[[Page Name]]" and "[[Page Name]]" forms are recognized.
func (t *Task) PageRefs() []string {
	return PageRefs(t.Title)
}

// PageRefs extracts page references from text.
func PageRefs(text string) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, name)
	}
	for _, m := range bracketRefPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range hashRefPattern.FindAllStringSubmatch(bracketRefPattern.ReplaceAllString(text, ""), -1) {
		add(m[1])
	}
	return refs
}

// FormatTitle returns the title for display with reference brackets removed.
func FormatTitle(title string) string {
	out := bracketRefPattern.ReplaceAllStringFunc(title, func(s string) string {
		name := bracketRefPattern.FindStringSubmatch(s)[1]
		if strings.HasPrefix(s, "#") {
			return "#" + name
		}
		return name
	})
	return strings.TrimSpace(out)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
