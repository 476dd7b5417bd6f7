package usecase

import (
	"context"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// EditTaskInput contains the fields to update. Nil fields are left
// untouched.
type EditTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	Deadline    *time.Time
	ClearDue    bool // Removes the deadline
	OwnerID     string
	TaskID      string
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask updates task metadata. Status, sessions and duration are
// owned by the session use cases and cannot be edited here.
type EditTask struct {
	tasks domain.TaskStore
	clock domain.Clock
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskStore, clock domain.Clock) *EditTask {
	return &EditTask{tasks: tasks, clock: clock}
}

// Execute applies the requested field updates in one transaction.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.Priority == nil && in.Deadline == nil && !in.ClearDue {
		return nil, domain.ErrNoFieldsToUpdate
	}

	now := uc.clock.Now()

	task, err := uc.tasks.Transact(ctx, in.OwnerID, in.TaskID, func(_ domain.TaskTx, task *domain.Task) error {
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.Deadline != nil {
			d := *in.Deadline
			task.Deadline = &d
		}
		if in.ClearDue {
			task.Deadline = nil
		}
		task.UpdatedAt = now
		return task.Validate()
	})
	if err != nil {
		return nil, err
	}

	return &EditTaskOutput{Task: task}, nil
}
