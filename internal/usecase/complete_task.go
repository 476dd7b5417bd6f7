package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	OwnerID string
	TaskID  string
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task *domain.Task // Task state as written
}

// CompleteTask moves a task to its terminal status, closing any open
// session on the way. Completion bookkeeping (stats, activity,
// achievements) is a separate concern; callers run RecordCompletion
// after this use case succeeds.
type CompleteTask struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *CompleteTask {
	return &CompleteTask{tasks: tasks, clock: clock, logger: logger}
}

// Execute completes the task in one transaction.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	now := uc.clock.Now()

	task, err := uc.tasks.Transact(ctx, in.OwnerID, in.TaskID, func(_ domain.TaskTx, task *domain.Task) error {
		if task.Status.IsTerminal() {
			return domain.ErrTaskCompleted
		}
		if !task.Status.CanTransitionTo(domain.StatusCompleted) {
			return fmt.Errorf("%s cannot complete: %w", task.Status, domain.ErrInvalidTransition)
		}

		if active, last := domain.SessionState(task.Sessions); active && last != nil {
			end := now
			last.End = &end
		}
		task.Duration = domain.SessionsDuration(task.Sessions)
		task.Status = domain.StatusCompleted
		te := now
		task.TimeEnd = &te
		task.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(in.OwnerID, "task", fmt.Sprintf("task %s completed", in.TaskID))

	return &CompleteTaskOutput{Task: task}, nil
}
