package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidInterval   = errors.New("invalid interval: end is before start")
	ErrIndexOutOfRange   = errors.New("time log index out of range")
	ErrEditLocked        = errors.New("recurring task cannot be edited here; modify the recurrence in the graph instead")
	ErrPersistFailed     = errors.New("failed to create/edit task block")
	ErrPageLookupFailed  = errors.New("failed to find page")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPlacement  = errors.New("invalid placement mode")
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
	ErrSessionClosed     = errors.New("edit session closed")
	ErrNotInitialized    = errors.New("agenda not initialized (run 'agenda init' first)")
	ErrUnknownFilter     = errors.New("filter not found")
	ErrConfigExists      = errors.New("config file already exists")
	ErrInvalidQuery      = errors.New("invalid filter query")
	ErrNotGitRepository  = errors.New("not a git repository")
)
