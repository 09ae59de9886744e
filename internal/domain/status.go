package domain

// Status represents the completion state of a task.
type Status string

const (
	StatusTodo Status = "todo" // Open
	StatusDone Status = "done" // Completed
)

// Marker is the raw status keyword written in front of a block.
type Marker string

const (
	MarkerTodo  Marker = "TODO"
	MarkerDoing Marker = "DOING"
	MarkerNow   Marker = "NOW"
	MarkerLater Marker = "LATER"
	MarkerDone  Marker = "DONE"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusTodo, StatusDone}
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusDone
}

// CanTransitionTo returns true if the status can transition to the target status.
// Only todo ⇄ done is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	return s.IsValid() && target.IsValid() && s != target
}

// Marker returns the raw marker written for this status.
func (s Status) Marker() Marker {
	if s == StatusDone {
		return MarkerDone
	}
	return MarkerTodo
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// IsMarker reports whether m is a recognized task marker.
func IsMarker(m string) bool {
	switch Marker(m) {
	case MarkerTodo, MarkerDoing, MarkerNow, MarkerLater, MarkerDone:
		return true
	}
	return false
}

// Status maps a raw marker to a task status. Every marker other than DONE is open.
func (m Marker) Status() Status {
	if m == MarkerDone {
		return StatusDone
	}
	return StatusTodo
}
