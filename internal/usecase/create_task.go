package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// CreateTaskInput contains the parameters for creating a task.
type CreateTaskInput struct {
	Deadline    *time.Time
	OwnerID     string
	Title       string
	Description string
	Priority    domain.Priority // Defaults to medium when empty
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask creates a new task with status not-started and an empty
// session list.
type CreateTask struct {
	tasks  domain.TaskStore
	users  domain.UserStore
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(tasks domain.TaskStore, users domain.UserStore, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{tasks: tasks, users: users, clock: clock, logger: logger}
}

// Execute validates and stores the task, then records the creation in
// the owner's activity log.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	now := uc.clock.Now()

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := &domain.Task{
		ID:          newTaskID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusNotStarted,
		Priority:    priority,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tasks.Create(ctx, in.OwnerID, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	entry := domain.ActivityEntry{
		Timestamp: now,
		Type:      domain.ActivityTaskCreated,
		Message:   fmt.Sprintf("Created task %q", task.Title),
		TaskID:    task.ID,
	}
	if err := uc.users.AppendActivity(ctx, in.OwnerID, entry); err != nil {
		// The task itself is stored; a failed log line is not fatal.
		uc.logger.Warn(in.OwnerID, "activity", fmt.Sprintf("record creation of %s: %v", task.ID, err))
	}

	uc.logger.Info(in.OwnerID, "task", fmt.Sprintf("task %s created", task.ID))

	return &CreateTaskOutput{Task: task}, nil
}

// newTaskID returns a random 20-hex-char document id.
func newTaskID() string {
	var b [10]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to a time-derived id instead of panicking.
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000")))[:20]
	}
	return hex.EncodeToString(b[:])
}
