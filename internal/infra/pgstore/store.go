// Package pgstore provides a PostgreSQL implementation of the task and
// user stores. Task documents live in JSONB columns; the status and
// creation time are mirrored into plain columns for filtering. Change
// notifications ride on LISTEN/NOTIFY.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

const notifyChannel = "focusflow_task_changes"

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	owner_id   TEXT        NOT NULL,
	task_id    TEXT        NOT NULL,
	doc        JSONB       NOT NULL,
	rev        BIGINT      NOT NULL,
	status     TEXT        NOT NULL,
	priority   TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (owner_id, task_id)
);

CREATE INDEX IF NOT EXISTS tasks_owner_status ON tasks (owner_id, status);

CREATE TABLE IF NOT EXISTS user_stats (
	owner_id TEXT  PRIMARY KEY,
	doc      JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS achievement_grants (
	owner_id       TEXT        NOT NULL,
	achievement_id TEXT        NOT NULL,
	granted_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (owner_id, achievement_id)
);

CREATE TABLE IF NOT EXISTS activity_log (
	id       BIGSERIAL   PRIMARY KEY,
	owner_id TEXT        NOT NULL,
	ts       TIMESTAMPTZ NOT NULL,
	doc      JSONB       NOT NULL
);

CREATE INDEX IF NOT EXISTS activity_owner_ts ON activity_log (owner_id, ts DESC);
`

// Store implements domain.TaskStore and domain.UserStore over PostgreSQL.
type Store struct {
	db      *sql.DB
	connStr string
}

// Open connects to PostgreSQL and verifies the connection.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, connStr: connStr}, nil
}

// Initialize creates the schema if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// === domain.TaskStore ===

// Get retrieves a task. Returns nil if not found.
func (s *Store) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM tasks WHERE owner_id = $1 AND task_id = $2`,
		ownerID, taskID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return decodeTask(doc)
}

// List retrieves the owner's tasks matching the filter, ordered by
// creation time.
func (s *Store) List(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT doc FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		query += fmt.Sprintf(` AND priority = $%d`, len(args))
	}
	query += ` ORDER BY created_at, task_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task, err := decodeTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Create stores a new task.
func (s *Store) Create(ctx context.Context, ownerID string, task *domain.Task) error {
	stored := task.Clone()
	stored.Rev = 1
	doc, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (owner_id, task_id, doc, rev, status, priority, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (owner_id, task_id) DO NOTHING`,
		ownerID, stored.ID, doc, stored.Rev, string(stored.Status), string(stored.Priority), stored.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskExists
	}

	task.Rev = stored.Rev
	s.notify(ctx, ownerID, task.ID)
	return nil
}

// Delete removes a task. Deleting a missing task is not an error.
func (s *Store) Delete(ctx context.Context, ownerID, taskID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND task_id = $2`,
		ownerID, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(ctx, ownerID, taskID)
	}
	return nil
}

// pgTx implements domain.TaskTx inside a database transaction.
type pgTx struct {
	ctx     context.Context
	tx      *sql.Tx
	ownerID string
}

func (t *pgTx) ActiveTaskExists(excludeTaskID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT EXISTS (
			SELECT 1 FROM tasks
			WHERE owner_id = $1 AND task_id <> $2 AND status = $3
		)`,
		t.ownerID, excludeTaskID, string(domain.StatusInProgress)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query active task: %w", err)
	}
	return exists, nil
}

// Transact locks the task row, runs fn against the decoded document and
// writes the result back in the same database transaction. The notify
// is sent inside the transaction, so listeners only hear about commits.
func (s *Store) Transact(ctx context.Context, ownerID, taskID string, fn func(domain.TaskTx, *domain.Task) error) (*domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var doc []byte
	err = tx.QueryRowContext(ctx,
		`SELECT doc FROM tasks WHERE owner_id = $1 AND task_id = $2 FOR UPDATE`,
		ownerID, taskID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock task: %w", err)
	}

	task, err := decodeTask(doc)
	if err != nil {
		return nil, err
	}

	if err := fn(&pgTx{ctx: ctx, tx: tx, ownerID: ownerID}, task); err != nil {
		return nil, err
	}

	task.Rev++
	updated, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET doc = $3, rev = $4, status = $5, priority = $6
		 WHERE owner_id = $1 AND task_id = $2`,
		ownerID, taskID, updated, task.Rev, string(task.Status), string(task.Priority)); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_notify($1, $2)`,
		notifyChannel, ownerID+"/"+taskID); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return task, nil
}

// ActiveTaskExists reports whether another task of the owner is
// in-progress.
func (s *Store) ActiveTaskExists(ctx context.Context, ownerID, excludeTaskID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM tasks
			WHERE owner_id = $1 AND task_id <> $2 AND status = $3
		)`,
		ownerID, excludeTaskID, string(domain.StatusInProgress)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query active task: %w", err)
	}
	return exists, nil
}

// === domain.UserStore ===

// GetStats returns the owner's stats, zero-valued if never written.
func (s *Store) GetStats(ctx context.Context, ownerID string) (*domain.UserStats, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM user_stats WHERE owner_id = $1`, ownerID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.UserStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	var stats domain.UserStats
	if err := json.Unmarshal(doc, &stats); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}
	return &stats, nil
}

// UpdateStats locks the stats row, applies fn and writes the result back.
func (s *Store) UpdateStats(ctx context.Context, ownerID string, fn func(*domain.UserStats) error) (*domain.UserStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Insert-if-missing first so the FOR UPDATE below always locks a row.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_stats (owner_id, doc) VALUES ($1, '{}')
		 ON CONFLICT (owner_id) DO NOTHING`, ownerID); err != nil {
		return nil, fmt.Errorf("ensure stats row: %w", err)
	}

	var doc []byte
	if err := tx.QueryRowContext(ctx,
		`SELECT doc FROM user_stats WHERE owner_id = $1 FOR UPDATE`,
		ownerID).Scan(&doc); err != nil {
		return nil, fmt.Errorf("lock stats: %w", err)
	}

	var stats domain.UserStats
	if err := json.Unmarshal(doc, &stats); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}
	if err := fn(&stats); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(&stats)
	if err != nil {
		return nil, fmt.Errorf("marshal stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE user_stats SET doc = $2 WHERE owner_id = $1`,
		ownerID, updated); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &stats, nil
}

// Grants returns the owner's granted achievements.
func (s *Store) Grants(ctx context.Context, ownerID string) ([]domain.GrantedAchievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, granted_at FROM achievement_grants
		 WHERE owner_id = $1 ORDER BY granted_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	var grants []domain.GrantedAchievement
	for rows.Next() {
		var g domain.GrantedAchievement
		if err := rows.Scan(&g.ID, &g.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// AddGrants appends grants, skipping ids already present.
func (s *Store) AddGrants(ctx context.Context, ownerID string, grants []domain.GrantedAchievement) error {
	for _, g := range grants {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO achievement_grants (owner_id, achievement_id, granted_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (owner_id, achievement_id) DO NOTHING`,
			ownerID, g.ID, g.GrantedAt); err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
	}
	return nil
}

// AppendActivity appends an entry to the owner's activity log.
func (s *Store) AppendActivity(ctx context.Context, ownerID string, entry domain.ActivityEntry) error {
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_log (owner_id, ts, doc) VALUES ($1, $2, $3)`,
		ownerID, entry.Timestamp, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivity returns entries older than q.Before, newest first.
func (s *Store) ListActivity(ctx context.Context, ownerID string, q domain.ActivityQuery) ([]domain.ActivityEntry, error) {
	query := `SELECT doc FROM activity_log WHERE owner_id = $1`
	args := []any{ownerID}
	if !q.Before.IsZero() {
		args = append(args, q.Before)
		query += fmt.Sprintf(` AND ts < $%d`, len(args))
	}
	query += ` ORDER BY ts DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		var e domain.ActivityEntry
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("parse activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// notify fires a change notification outside a transaction. Errors are
// ignored: a lost notification degrades the change feed, not the data.
func (s *Store) notify(ctx context.Context, ownerID, taskID string) {
	_, _ = s.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, ownerID+"/"+taskID)
}

func decodeTask(doc []byte) (*domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal(doc, &task); err != nil {
		return nil, fmt.Errorf("parse task: %w", err)
	}
	return &task, nil
}

var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.UserStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
