// Package timer holds the client-side presentation state of the task
// timer: the ticking elapsed value, in-flight action flags and the
// auto-expiring error banner. It is UI-free; the TUI drives it.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/tasksync"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// Default presentation timings.
const (
	DefaultTickInterval = time.Second
	DefaultMinUpdate    = time.Second
	DefaultErrorTTL     = 5 * time.Second
)

// Config tunes the presentation timings.
type Config struct {
	TickInterval time.Duration // Clock recompute cadence
	MinUpdate    time.Duration // Floor between two elapsed updates
	ErrorTTL     time.Duration // How long an error banner survives
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.MinUpdate <= 0 {
		c.MinUpdate = DefaultMinUpdate
	}
	if c.ErrorTTL <= 0 {
		c.ErrorTTL = DefaultErrorTTL
	}
	return c
}

// Loading reports which action is in flight.
type Loading struct {
	Starting bool
	Pausing  bool
}

// State is the presentation state for one observed task.
type State struct {
	start    *usecase.StartSession
	pause    *usecase.PauseSession
	observer *tasksync.Observer
	clock    domain.Clock
	cfg      Config
	ownerID  string
	taskID   string

	mu         sync.Mutex
	elapsed    time.Duration
	lastUpdate time.Time
	errMsg     string
	errUntil   time.Time
	loading    Loading
	busy       bool // Re-entrancy lock across start and pause
}

// New creates presentation state bound to one owner/task pair.
func New(start *usecase.StartSession, pause *usecase.PauseSession, observer *tasksync.Observer, clock domain.Clock, ownerID, taskID string, cfg Config) *State {
	return &State{
		start:    start,
		pause:    pause,
		observer: observer,
		clock:    clock,
		cfg:      cfg.withDefaults(),
		ownerID:  ownerID,
		taskID:   taskID,
	}
}

// Observer returns the observer driving this state. The UI owns the
// subscription lifecycle (Observe/Stop); the state only reads snapshots.
func (s *State) Observer() *tasksync.Observer {
	return s.observer
}

// Snapshot returns the observer's current view of the task.
func (s *State) Snapshot() tasksync.Snapshot {
	return s.observer.Snapshot()
}

// Tick recomputes the elapsed value from the observer's snapshot.
// While a session is active the update is throttled to cfg.MinUpdate;
// while inactive the persisted duration (or the baseline) shows as-is.
func (s *State) Tick(now time.Time) {
	snap := s.observer.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Active && snap.ActiveStart != nil {
		if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) < s.cfg.MinUpdate {
			return
		}
		s.lastUpdate = now
		s.elapsed = domain.CurrentElapsed(snap.Baseline, snap.ActiveStart, now)
		return
	}

	s.lastUpdate = time.Time{}
	if snap.Task != nil && snap.Task.Duration > 0 {
		s.elapsed = snap.Task.Duration
	} else {
		s.elapsed = snap.Baseline
	}
}

// Elapsed returns the last computed elapsed value.
func (s *State) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Loading returns the in-flight action flags.
func (s *State) Loading() Loading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current error message, or "" once it expired.
func (s *State) Err(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errMsg == "" || now.After(s.errUntil) {
		return ""
	}
	return s.errMsg
}

// ClearError dismisses the error banner immediately.
func (s *State) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// CanStart reports whether a start action would be dispatched.
func (s *State) CanStart() bool {
	snap := s.observer.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && snap.State == tasksync.StateSynced && snap.Task != nil &&
		!snap.Active && !snap.Task.Status.IsTerminal()
}

// CanPause reports whether a pause action would be dispatched.
func (s *State) CanPause() bool {
	snap := s.observer.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && snap.State == tasksync.StateSynced && snap.Task != nil && snap.Active
}

// Toggle dispatches start or pause depending on the current state, and
// is a no-op when neither applies.
func (s *State) Toggle(ctx context.Context) {
	switch {
	case s.CanPause():
		s.Pause(ctx)
	case s.CanStart():
		s.Start(ctx)
	}
}

// Start runs the start use case. A call while either action is still in
// flight is silently ignored: that is UI double-invocation, not a
// domain failure.
func (s *State) Start(ctx context.Context) {
	if !s.acquire(&s.loading.Starting) {
		return
	}
	_, err := s.start.Execute(ctx, usecase.StartSessionInput{OwnerID: s.ownerID, TaskID: s.taskID})
	s.release(&s.loading.Starting, err)
}

// Pause runs the pause use case, with the same re-entrancy guard.
func (s *State) Pause(ctx context.Context) {
	if !s.acquire(&s.loading.Pausing) {
		return
	}
	_, err := s.pause.Execute(ctx, usecase.PauseSessionInput{OwnerID: s.ownerID, TaskID: s.taskID})
	s.release(&s.loading.Pausing, err)
}

// acquire takes the re-entrancy lock. Returns false if an action is
// already in flight.
func (s *State) acquire(flag *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	*flag = true
	s.errMsg = ""
	return true
}

// release drops the lock and surfaces the action's error, if any.
func (s *State) release(flag *bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	*flag = false
	if err != nil {
		s.errMsg = userMessage(err)
		s.errUntil = s.clock.Now().Add(s.cfg.ErrorTTL)
	}
}

// userMessage maps domain errors to the strings shown in the UI.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return "task not found"
	case errors.Is(err, domain.ErrSessionActive):
		return "session already active"
	case errors.Is(err, domain.ErrNoActiveSession):
		return "no active session to pause"
	case errors.Is(err, domain.ErrConflictingActiveTask):
		return "another task is already active"
	case errors.Is(err, domain.ErrTaskCompleted):
		return "task is completed"
	default:
		return err.Error()
	}
}
