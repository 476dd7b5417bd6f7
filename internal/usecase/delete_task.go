package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	OwnerID string
	TaskID  string
}

// DeleteTaskOutput contains the deleted task.
type DeleteTaskOutput struct {
	Task *domain.Task
}

// DeleteTask removes a task and records the deletion.
type DeleteTask struct {
	tasks  domain.TaskStore
	users  domain.UserStore
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskStore, users domain.UserStore, clock domain.Clock, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, users: users, clock: clock, logger: logger}
}

// Execute deletes the task, failing with ErrTaskNotFound if missing.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := uc.tasks.Get(ctx, in.OwnerID, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	if err := uc.tasks.Delete(ctx, in.OwnerID, in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	entry := domain.ActivityEntry{
		Timestamp: uc.clock.Now(),
		Type:      domain.ActivityTaskDeleted,
		Message:   fmt.Sprintf("Deleted task %q", task.Title),
		TaskID:    task.ID,
	}
	if err := uc.users.AppendActivity(ctx, in.OwnerID, entry); err != nil {
		uc.logger.Warn(in.OwnerID, "activity", fmt.Sprintf("record deletion of %s: %v", task.ID, err))
	}

	uc.logger.Info(in.OwnerID, "task", fmt.Sprintf("task %s deleted", task.ID))

	return &DeleteTaskOutput{Task: task}, nil
}
