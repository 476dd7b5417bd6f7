package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// PauseSessionInput contains the parameters for pausing a work session.
type PauseSessionInput struct {
	OwnerID string
	TaskID  string
}

// PauseSessionOutput contains the result of pausing a work session.
type PauseSessionOutput struct {
	Task *domain.Task // Task state as written
}

// PauseSession closes the open work session on a task.
type PauseSession struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewPauseSession creates a new PauseSession use case.
func NewPauseSession(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *PauseSession {
	return &PauseSession{tasks: tasks, clock: clock, logger: logger}
}

// Execute closes the last session, recomputes the aggregate duration and
// moves the task to paused, all in one transaction.
func (uc *PauseSession) Execute(ctx context.Context, in PauseSessionInput) (*PauseSessionOutput, error) {
	now := uc.clock.Now()

	task, err := uc.tasks.Transact(ctx, in.OwnerID, in.TaskID, func(_ domain.TaskTx, task *domain.Task) error {
		active, last := domain.SessionState(task.Sessions)
		if !active || last == nil {
			return domain.ErrNoActiveSession
		}

		end := now
		last.End = &end
		task.Duration = domain.SessionsDuration(task.Sessions)
		task.Status = domain.StatusPaused
		te := now
		task.TimeEnd = &te
		task.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(in.OwnerID, "timer", fmt.Sprintf("session paused on task %s", in.TaskID))

	return &PauseSessionOutput{Task: task}, nil
}
