package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrSessionActive         = errors.New("session already active")
	ErrNoActiveSession       = errors.New("no active session to pause")
	ErrConflictingActiveTask = errors.New("another task is already active")
	ErrTaskCompleted         = errors.New("task is completed")
	ErrEmptyTitle            = errors.New("title cannot be empty")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidPriority       = errors.New("invalid priority")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrUnorderedSessions     = errors.New("only the last session may be open")
	ErrSessionEndBeforeStart = errors.New("session end precedes its start")
	ErrTaskExists            = errors.New("task already exists")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrUnknownStatField      = errors.New("unknown stat field")
	ErrUnknownCondition      = errors.New("unknown achievement condition")
	ErrNotInitialized        = errors.New("store not initialized (run 'focusflow init' first)")
	ErrWatchClosed           = errors.New("watch subscription closed")
)
