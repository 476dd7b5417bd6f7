// Package domain contains core business entities and interfaces.
package domain

import "time"

// Priority represents how urgent a task is.
type Priority string

// Valid priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a unit of work owned by a user.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Deadline    *time.Time    `json:"deadline,omitempty"`  // Optional due instant
	TimeStart   *time.Time    `json:"timeStart,omitempty"` // First-ever start, recorded once
	TimeEnd     *time.Time    `json:"timeEnd,omitempty"`   // Last pause/complete instant
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      Status        `json:"status"`
	Priority    Priority      `json:"priority"`
	Sessions    []Session     `json:"sessions,omitempty"`
	Duration    time.Duration `json:"duration"` // Aggregate of closed sessions
	Rev         int64         `json:"rev"`      // Bumped by the store on every write
}

// Session is one contiguous interval of active work on a task.
// A nil End means the session is currently open.
type Session struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Closed returns true if the session has ended.
func (s Session) Closed() bool {
	return s.End != nil
}

// Clone returns a deep copy of the task.
// Stores hand clones to transaction callbacks so a failed transaction
// never leaves a mutated shared document behind.
func (t *Task) Clone() *Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.TimeStart != nil {
		ts := *t.TimeStart
		c.TimeStart = &ts
	}
	if t.TimeEnd != nil {
		te := *t.TimeEnd
		c.TimeEnd = &te
	}
	if t.Sessions != nil {
		c.Sessions = make([]Session, len(t.Sessions))
		for i, s := range t.Sessions {
			c.Sessions[i] = s
			if s.End != nil {
				e := *s.End
				c.Sessions[i].End = &e
			}
		}
	}
	return &c
}

// Validate checks structural task invariants before a write.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	for i, s := range t.Sessions {
		if s.End == nil && i != len(t.Sessions)-1 {
			return ErrUnorderedSessions
		}
		if s.End != nil && s.End.Before(s.Start) {
			return ErrSessionEndBeforeStart
		}
	}
	return nil
}
