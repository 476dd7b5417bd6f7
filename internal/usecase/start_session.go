// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// StartSessionInput contains the parameters for starting a work session.
type StartSessionInput struct {
	OwnerID string
	TaskID  string
}

// StartSessionOutput contains the result of starting a work session.
type StartSessionOutput struct {
	Task      *domain.Task // Task state as written
	StartedAt time.Time    // Transaction instant, usable for immediate UI feedback
}

// StartSession opens a new work session on a task.
type StartSession struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewStartSession creates a new StartSession use case.
func NewStartSession(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *StartSession {
	return &StartSession{tasks: tasks, clock: clock, logger: logger}
}

// Execute appends an open session and moves the task to in-progress as a
// single read-check-write transaction. The single-active-task check runs
// inside the transaction callback; since it spans other documents its
// isolation is bounded by the store (see ReconcileActive).
func (uc *StartSession) Execute(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := uc.clock.Now()

	task, err := uc.tasks.Transact(ctx, in.OwnerID, in.TaskID, func(tx domain.TaskTx, task *domain.Task) error {
		if task.Status.IsTerminal() {
			return domain.ErrTaskCompleted
		}
		if active, _ := domain.SessionState(task.Sessions); active {
			return domain.ErrSessionActive
		}

		otherActive, err := tx.ActiveTaskExists(task.ID)
		if err != nil {
			return fmt.Errorf("check active tasks: %w", err)
		}
		if otherActive {
			return domain.ErrConflictingActiveTask
		}

		task.Sessions = append(task.Sessions, domain.Session{Start: now})
		task.Status = domain.StatusInProgress
		if task.TimeStart == nil {
			// First-ever start is recorded once and never overwritten.
			ts := now
			task.TimeStart = &ts
		}
		task.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(in.OwnerID, "timer", fmt.Sprintf("session started on task %s", in.TaskID))

	return &StartSessionOutput{Task: task, StartedAt: now}, nil
}
