package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not-started" // Created, no session yet
	StatusInProgress Status = "in-progress" // A session is open
	StatusPaused     Status = "paused"      // Sessions exist, none open
	StatusCompleted  Status = "completed"   // Terminal, no further sessions
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusInProgress,
		StatusPaused,
		StatusCompleted,
	}
}

// transitions defines the allowed status transitions.
// Flow: not-started → in-progress ⇄ paused → completed
var transitions = map[Status][]Status{
	StatusNotStarted: {StatusInProgress},
	StatusInProgress: {StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress, StatusCompleted},
	StatusCompleted:  {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state for timer purposes.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusPaused:
		return "Paused"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}
