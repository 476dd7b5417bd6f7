// Package tasksync keeps a local materialized view of one task document
// in step with the store's change feed.
package tasksync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// State is the observer's connection state.
type State int

const (
	// StateDisconnected means no subscription is live.
	StateDisconnected State = iota
	// StateSynced means the local mirror reflects the latest push.
	StateSynced
	// StateMissing means the store reported the task as non-existent.
	// Distinct from a sync error: a transient feed failure keeps the
	// last-known-good mirror, a missing document clears it.
	StateMissing
)

// Snapshot is an immutable view of the observer's derived state.
type Snapshot struct {
	Task        *domain.Task
	ActiveStart *time.Time    // Start of the open session, nil when inactive
	SyncErr     error         // Last feed error, nil once a push succeeds
	Baseline    time.Duration // Sum of closed session durations
	State       State
	Active      bool // Status is in-progress AND the last session is open
}

// Observer subscribes to one task document and recomputes the
// completed-duration baseline and active-session start reference on
// every push. It never mutates the document; all writes go through the
// session use cases.
type Observer struct {
	store    domain.TaskStore
	logger   domain.Logger
	onUpdate func(Snapshot)

	mu          sync.Mutex
	unsubscribe func()
	ownerID     string
	taskID      string
	gen         int // Bumped on every (re)subscribe to drop stale callbacks

	task        *domain.Task
	activeStart *time.Time
	syncErr     error
	baseline    time.Duration
	state       State
	active      bool
}

// New creates a detached Observer.
func New(store domain.TaskStore, logger domain.Logger) *Observer {
	return &Observer{store: store, logger: logger}
}

// SetOnUpdate registers a callback fired after every state change, with
// the fresh snapshot. Must be called before Observe.
func (o *Observer) SetOnUpdate(fn func(Snapshot)) {
	o.onUpdate = fn
}

// Observe switches the observer to the given task. Any previous
// subscription is cancelled and all derived state is reset before the
// new feed's first event, so a stale elapsed value for the previous
// task can never show through.
func (o *Observer) Observe(ctx context.Context, ownerID, taskID string) error {
	o.mu.Lock()
	o.stopLocked()
	o.ownerID = ownerID
	o.taskID = taskID
	o.gen++
	gen := o.gen
	o.mu.Unlock()

	unsubscribe, err := o.store.Watch(ctx, ownerID, taskID,
		func(task *domain.Task) { o.handleChange(gen, task) },
		func(err error) { o.handleError(gen, err) },
	)
	if err != nil {
		return fmt.Errorf("watch task: %w", err)
	}

	o.mu.Lock()
	if o.gen != gen {
		// Observe raced with another switch; we lost.
		o.mu.Unlock()
		unsubscribe()
		return nil
	}
	o.unsubscribe = unsubscribe
	o.mu.Unlock()
	return nil
}

// Stop cancels the subscription and resets derived state. Safe to call
// multiple times and safe to call without a prior Observe.
func (o *Observer) Stop() {
	o.mu.Lock()
	o.stopLocked()
	o.gen++
	o.mu.Unlock()
}

// stopLocked cancels and resets. Caller holds o.mu.
func (o *Observer) stopLocked() {
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	o.task = nil
	o.baseline = 0
	o.activeStart = nil
	o.active = false
	o.syncErr = nil
	o.state = StateDisconnected
}

// Snapshot returns the current derived state.
func (o *Observer) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Task:        o.task,
		Baseline:    o.baseline,
		ActiveStart: o.activeStart,
		Active:      o.active,
		State:       o.state,
		SyncErr:     o.syncErr,
	}
}

func (o *Observer) handleChange(gen int, task *domain.Task) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}

	if task == nil {
		o.task = nil
		o.baseline = 0
		o.activeStart = nil
		o.active = false
		o.syncErr = nil
		o.state = StateMissing
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.notify(snap)
		return
	}

	o.task = task
	o.active = domain.IsActive(task.Status, task.Sessions)
	o.baseline = domain.SessionsDuration(task.Sessions)
	if o.active {
		_, last := domain.SessionState(task.Sessions)
		start := last.Start
		o.activeStart = &start
	} else {
		o.activeStart = nil
		if task.Status == domain.StatusInProgress {
			// Persisted status diverged from the session list. Treated as
			// inactive; no automatic repair.
			o.logger.Warn(o.ownerID, "sync",
				fmt.Sprintf("task %s is in-progress with no open session", task.ID))
		}
	}
	o.syncErr = nil
	o.state = StateSynced
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap)
}

func (o *Observer) handleError(gen int, err error) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}
	// Keep the last good mirror: a transient feed failure must not look
	// like task deletion.
	o.syncErr = err
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.logger.Error(o.ownerID, "sync", fmt.Sprintf("task %s feed: %v", o.taskID, err))
	o.notify(snap)
}

// snapshotLocked builds a Snapshot. Caller holds o.mu.
func (o *Observer) snapshotLocked() Snapshot {
	return Snapshot{
		Task:        o.task,
		Baseline:    o.baseline,
		ActiveStart: o.activeStart,
		Active:      o.active,
		State:       o.state,
		SyncErr:     o.syncErr,
	}
}

func (o *Observer) notify(snap Snapshot) {
	if o.onUpdate != nil {
		o.onUpdate(snap)
	}
}
