package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// RawBlock is a block as stored in the graph. Timestamps are kept in their raw
// textual form; TaskTransformer turns them into a Task.
// Fields are ordered to minimize memory padding.
type RawBlock struct {
	Properties map[string]string // key:: value properties
	UUID       string            // Block id
	Marker     Marker            // TODO / DONE / ...
	Content    string            // First line without the marker
	Page       string            // Owning page name (lower-cased)
	Scheduled  string            // SCHEDULED timestamp text, without brackets
	Deadline   string            // DEADLINE timestamp text, without brackets
	Logbook    []string          // CLOCK lines of the logbook
}

// Clone returns a deep copy.
func (b RawBlock) Clone() RawBlock {
	c := b
	c.Properties = maps.Clone(b.Properties)
	c.Logbook = slices.Clone(b.Logbook)
	return c
}

// PageInfo describes a page of the graph.
type PageInfo struct {
	Name         string // Lower-cased page name, the page id
	OriginalName string // Name as written
	JournalDay   int    // yyyymmdd for journals
	IsJournal    bool
}

// BlockDraft is everything needed to create a task block.
// Fields are ordered to minimize memory padding.
type BlockDraft struct {
	EstimatedTime *Minutes
	RRule         *RecurrenceRule
	Title         string
	ProjectID     string // Page to append the block to; empty = journal of the start date
	Marker        Marker
	Placement     Placement
	TimeLogs      []TimeLog
}

// BlockDelta is a partial update of a task block. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type BlockDelta struct {
	Title         *string
	Marker        *Marker
	Placement     *Placement
	EstimatedTime *Minutes // zero clears the estimate
	ProjectID     *string
	TimeLogs      *[]TimeLog
	RRule         *RecurrenceRule
	ClearRRule    bool
}

// IsEmpty reports whether the delta changes nothing.
func (d BlockDelta) IsEmpty() bool {
	return d.Title == nil && d.Marker == nil && d.Placement == nil && d.EstimatedTime == nil &&
		d.ProjectID == nil && d.TimeLogs == nil && d.RRule == nil && !d.ClearRRule
}

// TouchesSchedule reports whether the delta changes fields guarded by the edit lock.
func (d BlockDelta) TouchesSchedule() bool {
	return d.Marker != nil || d.Placement != nil || d.TimeLogs != nil || d.RRule != nil || d.ClearRRule
}

// JournalDayOf returns the yyyymmdd journal day of t.
func JournalDayOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// JournalTitle returns the display name of the journal page for t, e.g. "Jan 2nd, 2024".
func JournalTitle(t time.Time) string {
	d := t.Day()
	suffix := "th"
	switch {
	case d%100 >= 11 && d%100 <= 13:
	case d%10 == 1:
		suffix = "st"
	case d%10 == 2:
		suffix = "nd"
	case d%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%s %d%s, %d", t.Format("Jan"), d, suffix, t.Year())
}
