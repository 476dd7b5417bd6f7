// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// mockTx implements domain.TaskTx against the mock's fixed answer.
type mockTx struct {
	store *MockTaskStore
	owner string
}

func (tx *mockTx) ActiveTaskExists(excludeTaskID string) (bool, error) {
	if tx.store.ActiveExistsErr != nil {
		return false, tx.store.ActiveExistsErr
	}
	if tx.store.ActiveExistsVal {
		return true, nil
	}
	return tx.store.activeExists(tx.owner, excludeTaskID), nil
}

// MockTaskStore is a map-backed test double for domain.TaskStore.
// Fields are ordered to minimize memory padding.
type MockTaskStore struct {
	Tasks           map[string]map[string]*domain.Task // ownerID -> taskID -> task
	GetErr          error
	TransactErr     error
	ActiveExistsErr error
	watchers        []*mockWatcher
	ActiveExistsVal bool // Forces ActiveTaskExists to answer true
}

type mockWatcher struct {
	ownerID  string
	taskID   string
	onChange func(*domain.Task)
	onError  func(error)
	stopped  bool
}

// NewMockTaskStore creates a MockTaskStore with initialized maps.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[string]map[string]*domain.Task)}
}

// Put seeds a task.
func (m *MockTaskStore) Put(ownerID string, task *domain.Task) {
	if m.Tasks[ownerID] == nil {
		m.Tasks[ownerID] = make(map[string]*domain.Task)
	}
	m.Tasks[ownerID][task.ID] = task
}

// Get retrieves a task. Returns nil if not found.
func (m *MockTaskStore) Get(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[ownerID][taskID]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns the owner's tasks matching the filter, ordered by creation time.
func (m *MockTaskStore) List(_ context.Context, ownerID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, t := range m.Tasks[ownerID] {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Create stores a new task.
func (m *MockTaskStore) Create(_ context.Context, ownerID string, task *domain.Task) error {
	if _, ok := m.Tasks[ownerID][task.ID]; ok {
		return domain.ErrTaskExists
	}
	m.Put(ownerID, task)
	m.notify(ownerID, task.ID)
	return nil
}

// Delete removes a task.
func (m *MockTaskStore) Delete(_ context.Context, ownerID, taskID string) error {
	delete(m.Tasks[ownerID], taskID)
	m.notify(ownerID, taskID)
	return nil
}

// Transact applies fn to a clone of the task and commits it on success.
func (m *MockTaskStore) Transact(_ context.Context, ownerID, taskID string, fn func(domain.TaskTx, *domain.Task) error) (*domain.Task, error) {
	if m.TransactErr != nil {
		return nil, m.TransactErr
	}
	task, ok := m.Tasks[ownerID][taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := task.Clone()
	if err := fn(&mockTx{store: m, owner: ownerID}, clone); err != nil {
		return nil, err
	}
	clone.Rev = task.Rev + 1
	m.Tasks[ownerID][taskID] = clone
	m.notify(ownerID, taskID)
	return clone, nil
}

// ActiveTaskExists reports whether another task of the owner is in-progress.
func (m *MockTaskStore) ActiveTaskExists(_ context.Context, ownerID, excludeTaskID string) (bool, error) {
	if m.ActiveExistsErr != nil {
		return false, m.ActiveExistsErr
	}
	if m.ActiveExistsVal {
		return true, nil
	}
	return m.activeExists(ownerID, excludeTaskID), nil
}

func (m *MockTaskStore) activeExists(ownerID, excludeTaskID string) bool {
	for id, t := range m.Tasks[ownerID] {
		if id != excludeTaskID && t.Status == domain.StatusInProgress {
			return true
		}
	}
	return false
}

// Watch registers a watcher and immediately delivers the current state.
func (m *MockTaskStore) Watch(_ context.Context, ownerID, taskID string, onChange func(*domain.Task), onError func(error)) (func(), error) {
	w := &mockWatcher{ownerID: ownerID, taskID: taskID, onChange: onChange, onError: onError}
	m.watchers = append(m.watchers, w)
	onChange(m.Tasks[ownerID][taskID])
	return func() { w.stopped = true }, nil
}

// PushError delivers an error to every live watcher of the task.
func (m *MockTaskStore) PushError(ownerID, taskID string, err error) {
	for _, w := range m.watchers {
		if !w.stopped && w.ownerID == ownerID && w.taskID == taskID {
			w.onError(err)
		}
	}
}

func (m *MockTaskStore) notify(ownerID, taskID string) {
	for _, w := range m.watchers {
		if !w.stopped && w.ownerID == ownerID && w.taskID == taskID {
			w.onChange(m.Tasks[ownerID][taskID])
		}
	}
}

// Ensure MockTaskStore implements domain.TaskStore.
var _ domain.TaskStore = (*MockTaskStore)(nil)

// MockUserStore is a map-backed test double for domain.UserStore.
type MockUserStore struct {
	Stats      map[string]*domain.UserStats
	GrantsByID map[string][]domain.GrantedAchievement
	Activity   map[string][]domain.ActivityEntry
	StatsErr   error
}

// NewMockUserStore creates a MockUserStore with initialized maps.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Stats:      make(map[string]*domain.UserStats),
		GrantsByID: make(map[string][]domain.GrantedAchievement),
		Activity:   make(map[string][]domain.ActivityEntry),
	}
}

// GetStats returns the owner's stats, zero-valued if never written.
func (m *MockUserStore) GetStats(_ context.Context, ownerID string) (*domain.UserStats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	if s, ok := m.Stats[ownerID]; ok {
		clone := *s
		return &clone, nil
	}
	return &domain.UserStats{}, nil
}

// UpdateStats applies fn to the owner's stats.
func (m *MockUserStore) UpdateStats(_ context.Context, ownerID string, fn func(*domain.UserStats) error) (*domain.UserStats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	s, ok := m.Stats[ownerID]
	if !ok {
		s = &domain.UserStats{}
	}
	clone := *s
	if err := fn(&clone); err != nil {
		return nil, err
	}
	m.Stats[ownerID] = &clone
	result := clone
	return &result, nil
}

// Grants returns the owner's granted achievements.
func (m *MockUserStore) Grants(_ context.Context, ownerID string) ([]domain.GrantedAchievement, error) {
	return m.GrantsByID[ownerID], nil
}

// AddGrants appends grants, skipping ids already present.
func (m *MockUserStore) AddGrants(_ context.Context, ownerID string, grants []domain.GrantedAchievement) error {
	existing := make(map[string]bool, len(m.GrantsByID[ownerID]))
	for _, g := range m.GrantsByID[ownerID] {
		existing[g.ID] = true
	}
	for _, g := range grants {
		if !existing[g.ID] {
			m.GrantsByID[ownerID] = append(m.GrantsByID[ownerID], g)
		}
	}
	return nil
}

// AppendActivity appends an entry to the owner's activity log.
func (m *MockUserStore) AppendActivity(_ context.Context, ownerID string, entry domain.ActivityEntry) error {
	m.Activity[ownerID] = append(m.Activity[ownerID], entry)
	return nil
}

// ListActivity returns entries older than q.Before, newest first.
func (m *MockUserStore) ListActivity(_ context.Context, ownerID string, q domain.ActivityQuery) ([]domain.ActivityEntry, error) {
	entries := append([]domain.ActivityEntry(nil), m.Activity[ownerID]...)
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

// Ensure MockUserStore implements domain.UserStore.
var _ domain.UserStore = (*MockUserStore)(nil)

// MockCatalog is a fixed-list test double for domain.AchievementCatalog.
type MockCatalog struct {
	Achievements []domain.Achievement
	ListErr      error
	ListCalls    int
}

// List returns the configured achievements.
func (m *MockCatalog) List(_ context.Context) ([]domain.Achievement, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Achievements, nil
}

// NopLogger is a domain.Logger that discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string, string) {}
func (NopLogger) Info(string, string, string)  {}
func (NopLogger) Warn(string, string, string)  {}
func (NopLogger) Error(string, string, string) {}
