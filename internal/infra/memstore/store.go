// Package memstore provides an in-memory implementation of the task and
// user stores. It backs tests and the default development setup.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// ownerData holds everything stored for one owner.
type ownerData struct {
	tasks    map[string]*domain.Task
	grants   []domain.GrantedAchievement
	activity []domain.ActivityEntry
	stats    domain.UserStats
}

// Store implements domain.TaskStore and domain.UserStore in memory.
type Store struct {
	mu       sync.Mutex
	owners   map[string]*ownerData
	watchers map[int]*watcher
	nextID   int
	seq      int64 // Global event sequence, orders watch deliveries
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		owners:   make(map[string]*ownerData),
		watchers: make(map[int]*watcher),
	}
}

func (s *Store) owner(ownerID string) *ownerData {
	o, ok := s.owners[ownerID]
	if !ok {
		o = &ownerData{tasks: make(map[string]*domain.Task)}
		s.owners[ownerID] = o
	}
	return o
}

// === domain.TaskStore ===

// Get retrieves a task. Returns nil if not found.
func (s *Store) Get(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.owner(ownerID).tasks[taskID]; ok {
		return t.Clone(), nil
	}
	return nil, nil
}

// List retrieves the owner's tasks matching the filter, ordered by
// creation time.
func (s *Store) List(_ context.Context, ownerID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []*domain.Task
	for _, t := range s.owner(ownerID).tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		tasks = append(tasks, t.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Create stores a new task.
func (s *Store) Create(_ context.Context, ownerID string, task *domain.Task) error {
	s.mu.Lock()
	o := s.owner(ownerID)
	if _, ok := o.tasks[task.ID]; ok {
		s.mu.Unlock()
		return domain.ErrTaskExists
	}
	stored := task.Clone()
	stored.Rev = 1
	o.tasks[task.ID] = stored
	deliveries := s.eventLocked(ownerID, task.ID, stored.Clone())
	s.mu.Unlock()

	deliver(deliveries)
	task.Rev = stored.Rev
	return nil
}

// Delete removes a task. Deleting a missing task is not an error.
func (s *Store) Delete(_ context.Context, ownerID, taskID string) error {
	s.mu.Lock()
	o := s.owner(ownerID)
	_, existed := o.tasks[taskID]
	delete(o.tasks, taskID)
	var deliveries []delivery
	if existed {
		deliveries = s.eventLocked(ownerID, taskID, nil)
	}
	s.mu.Unlock()

	deliver(deliveries)
	return nil
}

// memTx implements domain.TaskTx over the locked store state.
type memTx struct {
	store   *Store
	ownerID string
}

func (tx *memTx) ActiveTaskExists(excludeTaskID string) (bool, error) {
	return tx.store.activeExistsLocked(tx.ownerID, excludeTaskID), nil
}

func (s *Store) activeExistsLocked(ownerID, excludeTaskID string) bool {
	for id, t := range s.owner(ownerID).tasks {
		if id != excludeTaskID && t.Status == domain.StatusInProgress {
			return true
		}
	}
	return false
}

// Transact runs fn against a clone of the task and commits the clone
// atomically. The store mutex is held for the duration of fn, which
// gives the read-check-write sequence single-document atomicity.
func (s *Store) Transact(_ context.Context, ownerID, taskID string, fn func(domain.TaskTx, *domain.Task) error) (*domain.Task, error) {
	s.mu.Lock()
	o := s.owner(ownerID)
	current, ok := o.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}

	next := current.Clone()
	if err := fn(&memTx{store: s, ownerID: ownerID}, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next.Rev = current.Rev + 1
	o.tasks[taskID] = next
	result := next.Clone()
	deliveries := s.eventLocked(ownerID, taskID, next.Clone())
	s.mu.Unlock()

	deliver(deliveries)
	return result, nil
}

// ActiveTaskExists reports whether another task of the owner is
// in-progress.
func (s *Store) ActiveTaskExists(_ context.Context, ownerID, excludeTaskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeExistsLocked(ownerID, excludeTaskID), nil
}

// === domain.UserStore ===

// GetStats returns the owner's stats, zero-valued if never written.
func (s *Store) GetStats(_ context.Context, ownerID string) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.owner(ownerID).stats
	return &stats, nil
}

// UpdateStats applies fn to the owner's stats atomically.
func (s *Store) UpdateStats(_ context.Context, ownerID string, fn func(*domain.UserStats) error) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.owner(ownerID)
	next := o.stats
	if err := fn(&next); err != nil {
		return nil, err
	}
	o.stats = next
	result := next
	return &result, nil
}

// Grants returns the owner's granted achievements.
func (s *Store) Grants(_ context.Context, ownerID string) ([]domain.GrantedAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GrantedAchievement(nil), s.owner(ownerID).grants...), nil
}

// AddGrants appends grants, skipping ids already present.
func (s *Store) AddGrants(_ context.Context, ownerID string, grants []domain.GrantedAchievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.owner(ownerID)
	held := make(map[string]bool, len(o.grants))
	for _, g := range o.grants {
		held[g.ID] = true
	}
	for _, g := range grants {
		if !held[g.ID] {
			o.grants = append(o.grants, g)
			held[g.ID] = true
		}
	}
	return nil
}

// AppendActivity appends an entry to the owner's activity log.
func (s *Store) AppendActivity(_ context.Context, ownerID string, entry domain.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.owner(ownerID)
	o.activity = append(o.activity, entry)
	return nil
}

// ListActivity returns entries older than q.Before, newest first.
func (s *Store) ListActivity(_ context.Context, ownerID string, q domain.ActivityQuery) ([]domain.ActivityEntry, error) {
	s.mu.Lock()
	entries := append([]domain.ActivityEntry(nil), s.owner(ownerID).activity...)
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	var out []domain.ActivityEntry
	for _, e := range entries {
		if !q.Before.IsZero() && !e.Timestamp.Before(q.Before) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Ensure interface compliance.
var (
	_ domain.TaskStore = (*Store)(nil)
	_ domain.UserStore = (*Store)(nil)
)
