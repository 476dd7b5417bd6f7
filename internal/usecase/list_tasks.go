package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// ListTasksInput contains the filter for listing tasks.
type ListTasksInput struct {
	Status   *domain.Status
	Priority *domain.Priority
	OwnerID  string
}

// ListTasksOutput contains the matching tasks, ordered by creation time.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks lists an owner's tasks.
type ListTasks struct {
	tasks domain.TaskStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskStore) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching the filter.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	tasks, err := uc.tasks.List(ctx, in.OwnerID, domain.TaskFilter{
		Status:   in.Status,
		Priority: in.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}

// GetTaskInput identifies a single task.
type GetTaskInput struct {
	OwnerID string
	TaskID  string
}

// GetTaskOutput contains the requested task.
type GetTaskOutput struct {
	Task *domain.Task
}

// GetTask fetches one task.
type GetTask struct {
	tasks domain.TaskStore
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(tasks domain.TaskStore) *GetTask {
	return &GetTask{tasks: tasks}
}

// Execute fetches the task, failing with ErrTaskNotFound if missing.
func (uc *GetTask) Execute(ctx context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	task, err := uc.tasks.Get(ctx, in.OwnerID, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return &GetTaskOutput{Task: task}, nil
}
