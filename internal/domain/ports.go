package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Status   *Status   // nil = any status
	Priority *Priority // nil = any priority
}

// TaskTx exposes the queries available inside a transaction callback.
// The single-active-task check spans documents other than the one under
// transaction, so its isolation is bounded by the backing store; see
// ReconcileActive for the detection-and-correction side.
type TaskTx interface {
	// ActiveTaskExists reports whether any other task of the owner is
	// currently in-progress.
	ActiveTaskExists(excludeTaskID string) (bool, error)
}

// TaskStore manages task persistence.
// All session/status/duration mutations go through Transact; Get, List
// and Watch are read-only and never drive mutation decisions directly.
type TaskStore interface {
	// Get retrieves a task. Returns nil if not found.
	Get(ctx context.Context, ownerID, taskID string) (*Task, error)

	// List retrieves the owner's tasks matching the filter, ordered by
	// creation time.
	List(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error)

	// Create stores a new task. Fails with ErrTaskExists on an ID collision.
	Create(ctx context.Context, ownerID string, task *Task) error

	// Delete removes a task. Deleting a missing task is not an error.
	Delete(ctx context.Context, ownerID, taskID string) error

	// Transact runs fn against a consistent snapshot of the task and
	// applies the mutated snapshot atomically. Returns ErrTaskNotFound
	// without calling fn if the document is missing. An error from fn
	// aborts the transaction and is returned unchanged. On success the
	// applied document is returned.
	Transact(ctx context.Context, ownerID, taskID string, fn func(tx TaskTx, task *Task) error) (*Task, error)

	// ActiveTaskExists reports whether any task of the owner other than
	// excludeTaskID is in-progress, outside any transaction.
	ActiveTaskExists(ctx context.Context, ownerID, excludeTaskID string) (bool, error)

	// Watch subscribes to the task document. onChange fires once with the
	// current state, then after every write (self-caused writes included),
	// in order; a nil task signals non-existence. onError reports feed
	// failures without ending the subscription. The returned unsubscribe
	// stops delivery synchronously and is safe to call more than once.
	Watch(ctx context.Context, ownerID, taskID string, onChange func(*Task), onError func(error)) (func(), error)
}

// ActivityQuery selects a page of activity entries.
type ActivityQuery struct {
	Before time.Time // Zero = newest first from the top
	Limit  int       // 0 = store default
}

// UserStore manages per-owner stats, achievement grants and the
// activity log.
type UserStore interface {
	// GetStats returns the owner's stats, zero-valued if never written.
	GetStats(ctx context.Context, ownerID string) (*UserStats, error)

	// UpdateStats runs fn against the owner's stats and persists the
	// mutated value atomically.
	UpdateStats(ctx context.Context, ownerID string, fn func(*UserStats) error) (*UserStats, error)

	// Grants returns the achievements already granted to the owner.
	Grants(ctx context.Context, ownerID string) ([]GrantedAchievement, error)

	// AddGrants appends grants, skipping ids already present.
	AddGrants(ctx context.Context, ownerID string, grants []GrantedAchievement) error

	// AppendActivity appends an entry to the owner's activity log.
	AppendActivity(ctx context.Context, ownerID string, entry ActivityEntry) error

	// ListActivity returns entries strictly older than q.Before (or the
	// newest ones if zero), newest first, at most q.Limit.
	ListActivity(ctx context.Context, ownerID string, q ActivityQuery) ([]ActivityEntry, error)
}

// AchievementCatalog lists the available achievements.
type AchievementCatalog interface {
	List(ctx context.Context) ([]Achievement, error)
}

// Logger is the application logging port.
type Logger interface {
	Debug(ownerID, category, msg string)
	Info(ownerID, category, msg string)
	Warn(ownerID, category, msg string)
	Error(ownerID, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
