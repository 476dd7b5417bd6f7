// Package filestore provides a JSON file-based implementation of the
// task and user stores. Cross-process safety comes from flock on a
// sidecar lock file; writes go through a temp file and rename.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Owners map[string]*ownerData `json:"owners"`
	Meta   meta                  `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Version int `json:"version"`
}

// ownerData holds everything stored for one owner.
type ownerData struct {
	Tasks    map[string]*domain.Task     `json:"tasks"`
	Stats    domain.UserStats            `json:"stats"`
	Grants   []domain.GrantedAchievement `json:"grants"`
	Activity []domain.ActivityEntry      `json:"activity"`
}

// Store implements domain.TaskStore and domain.UserStore using a JSON file.
type Store struct {
	path     string
	lockPath string

	pollInterval time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPollInterval sets the change-feed polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.pollInterval = d }
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:         path,
		lockPath:     path + ".lock",
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(&storeData{
		Owners: make(map[string]*ownerData),
		Meta:   meta{Version: 1},
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// === domain.TaskStore ===

// Get retrieves a task. Returns nil if not found.
func (s *Store) Get(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		if t, ok := data.owner(ownerID).Tasks[taskID]; ok {
			task = t
		}
		return nil
	})
	return task, err
}

// List retrieves the owner's tasks matching the filter, ordered by
// creation time.
func (s *Store) List(_ context.Context, ownerID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(func(data *storeData) error {
		for _, t := range data.owner(ownerID).Tasks {
			if filter.Status != nil && t.Status != *filter.Status {
				continue
			}
			if filter.Priority != nil && t.Priority != *filter.Priority {
				continue
			}
			tasks = append(tasks, t)
		}
		return nil
	})
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, err
}

// Create stores a new task.
func (s *Store) Create(_ context.Context, ownerID string, task *domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		o := data.owner(ownerID)
		if _, ok := o.Tasks[task.ID]; ok {
			return domain.ErrTaskExists
		}
		stored := task.Clone()
		stored.Rev = 1
		o.Tasks[task.ID] = stored
		task.Rev = stored.Rev
		return nil
	})
}

// Delete removes a task. Deleting a missing task is not an error.
func (s *Store) Delete(_ context.Context, ownerID, taskID string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.owner(ownerID).Tasks, taskID)
		return nil
	})
}

// fileTx implements domain.TaskTx over the locked file snapshot.
type fileTx struct {
	data    *storeData
	ownerID string
}

func (tx *fileTx) ActiveTaskExists(excludeTaskID string) (bool, error) {
	return activeExists(tx.data, tx.ownerID, excludeTaskID), nil
}

func activeExists(data *storeData, ownerID, excludeTaskID string) bool {
	for id, t := range data.owner(ownerID).Tasks {
		if id != excludeTaskID && t.Status == domain.StatusInProgress {
			return true
		}
	}
	return false
}

// Transact runs fn under the exclusive file lock, so the read and the
// write happen against the same on-disk state even across processes.
func (s *Store) Transact(_ context.Context, ownerID, taskID string, fn func(domain.TaskTx, *domain.Task) error) (*domain.Task, error) {
	var result *domain.Task
	err := s.withLockWrite(func(data *storeData) error {
		o := data.owner(ownerID)
		current, ok := o.Tasks[taskID]
		if !ok {
			return domain.ErrTaskNotFound
		}
		next := current.Clone()
		if err := fn(&fileTx{data: data, ownerID: ownerID}, next); err != nil {
			return err
		}
		next.Rev = current.Rev + 1
		o.Tasks[taskID] = next
		result = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveTaskExists reports whether another task of the owner is
// in-progress.
func (s *Store) ActiveTaskExists(_ context.Context, ownerID, excludeTaskID string) (bool, error) {
	var exists bool
	err := s.withLock(func(data *storeData) error {
		exists = activeExists(data, ownerID, excludeTaskID)
		return nil
	})
	return exists, err
}

// === domain.UserStore ===

// GetStats returns the owner's stats, zero-valued if never written.
func (s *Store) GetStats(_ context.Context, ownerID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := s.withLock(func(data *storeData) error {
		stats = data.owner(ownerID).Stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpdateStats applies fn to the owner's stats under the exclusive lock.
func (s *Store) UpdateStats(_ context.Context, ownerID string, fn func(*domain.UserStats) error) (*domain.UserStats, error) {
	var result domain.UserStats
	err := s.withLockWrite(func(data *storeData) error {
		o := data.owner(ownerID)
		next := o.Stats
		if err := fn(&next); err != nil {
			return err
		}
		o.Stats = next
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Grants returns the owner's granted achievements.
func (s *Store) Grants(_ context.Context, ownerID string) ([]domain.GrantedAchievement, error) {
	var grants []domain.GrantedAchievement
	err := s.withLock(func(data *storeData) error {
		grants = append(grants, data.owner(ownerID).Grants...)
		return nil
	})
	return grants, err
}

// AddGrants appends grants, skipping ids already present.
func (s *Store) AddGrants(_ context.Context, ownerID string, grants []domain.GrantedAchievement) error {
	return s.withLockWrite(func(data *storeData) error {
		o := data.owner(ownerID)
		held := make(map[string]bool, len(o.Grants))
		for _, g := range o.Grants {
			held[g.ID] = true
		}
		for _, g := range grants {
			if !held[g.ID] {
				o.Grants = append(o.Grants, g)
				held[g.ID] = true
			}
		}
		return nil
	})
}

// AppendActivity appends an entry to the owner's activity log.
func (s *Store) AppendActivity(_ context.Context, ownerID string, entry domain.ActivityEntry) error {
	return s.withLockWrite(func(data *storeData) error {
		o := data.owner(ownerID)
		o.Activity = append(o.Activity, entry)
		return nil
	})
}

// ListActivity returns entries older than q.Before, newest first.
func (s *Store) ListActivity(_ context.Context, ownerID string, q domain.ActivityQuery) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	err := s.withLock(func(data *storeData) error {
		entries = append(entries, data.owner(ownerID).Activity...)
		return nil
	})
	if err != nil {
		return nil, err
	}

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

func (d *storeData) owner(ownerID string) *ownerData {
	o, ok := d.Owners[ownerID]
	if !ok {
		o = &ownerData{Tasks: make(map[string]*domain.Task)}
		d.Owners[ownerID] = o
	}
	return o
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if data.Owners == nil {
		data.Owners = make(map[string]*ownerData)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.UserStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
