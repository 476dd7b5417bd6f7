package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_Execute(t *testing.T) {
	store := testutil.NewMockTaskStore()
	users := testutil.NewMockUserStore()
	clock := &testutil.MockClock{NowTime: time.UnixMilli(1000)}
	uc := NewCreateTask(store, users, clock, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), CreateTaskInput{
		OwnerID: owner,
		Title:   "Write report",
	})

	require.NoError(t, err)
	task := out.Task
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.StatusNotStarted, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority, "priority defaults to medium")
	assert.Empty(t, task.Sessions, "new task starts with an empty session list")
	assert.Equal(t, time.UnixMilli(1000), task.CreatedAt)

	stored := store.Tasks[owner][task.ID]
	require.NotNil(t, stored)

	require.Len(t, users.Activity[owner], 1)
	assert.Equal(t, domain.ActivityTaskCreated, users.Activity[owner][0].Type)
	assert.Equal(t, task.ID, users.Activity[owner][0].TaskID)
}

func TestCreateTask_Execute_EmptyTitle(t *testing.T) {
	uc := NewCreateTask(testutil.NewMockTaskStore(), testutil.NewMockUserStore(), &testutil.MockClock{}, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), CreateTaskInput{OwnerID: owner})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestCreateTask_Execute_UniqueIDs(t *testing.T) {
	uc := NewCreateTask(testutil.NewMockTaskStore(), testutil.NewMockUserStore(), &testutil.MockClock{}, testutil.NopLogger{})

	seen := make(map[string]bool)
	for range 50 {
		out, err := uc.Execute(context.Background(), CreateTaskInput{OwnerID: owner, Title: "x"})
		require.NoError(t, err)
		require.False(t, seen[out.Task.ID], "duplicate id %s", out.Task.ID)
		seen[out.Task.ID] = true
	}
}

func TestDeleteTask_Execute(t *testing.T) {
	store := testutil.NewMockTaskStore()
	users := testutil.NewMockUserStore()
	uc := NewDeleteTask(store, users, &testutil.MockClock{NowTime: time.UnixMilli(1000)}, testutil.NopLogger{})

	store.Put(owner, &domain.Task{ID: "t1", Title: "Doomed", Status: domain.StatusNotStarted, Priority: domain.PriorityLow})

	out, err := uc.Execute(context.Background(), DeleteTaskInput{OwnerID: owner, TaskID: "t1"})

	require.NoError(t, err)
	assert.Equal(t, "t1", out.Task.ID)
	assert.Nil(t, store.Tasks[owner]["t1"])
	require.Len(t, users.Activity[owner], 1)
	assert.Equal(t, domain.ActivityTaskDeleted, users.Activity[owner][0].Type)
}

func TestDeleteTask_Execute_NotFound(t *testing.T) {
	uc := NewDeleteTask(testutil.NewMockTaskStore(), testutil.NewMockUserStore(), &testutil.MockClock{}, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), DeleteTaskInput{OwnerID: owner, TaskID: "missing"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestEditTask_Execute(t *testing.T) {
	store := testutil.NewMockTaskStore()
	clock := &testutil.MockClock{NowTime: time.UnixMilli(5000)}
	uc := NewEditTask(store, clock)

	store.Put(owner, &domain.Task{ID: "t1", Title: "Old", Status: domain.StatusNotStarted, Priority: domain.PriorityLow})

	title := "New title"
	prio := domain.PriorityHigh
	out, err := uc.Execute(context.Background(), EditTaskInput{
		OwnerID:  owner,
		TaskID:   "t1",
		Title:    &title,
		Priority: &prio,
	})

	require.NoError(t, err)
	assert.Equal(t, "New title", out.Task.Title)
	assert.Equal(t, domain.PriorityHigh, out.Task.Priority)
	assert.Equal(t, time.UnixMilli(5000), out.Task.UpdatedAt)
}

func TestEditTask_Execute_NoFields(t *testing.T) {
	uc := NewEditTask(testutil.NewMockTaskStore(), &testutil.MockClock{})

	_, err := uc.Execute(context.Background(), EditTaskInput{OwnerID: owner, TaskID: "t1"})

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestListActivity_Execute_Pagination(t *testing.T) {
	users := testutil.NewMockUserStore()
	uc := NewListActivity(users)
	ctx := context.Background()

	for i := range 5 {
		_ = users.AppendActivity(ctx, owner, domain.ActivityEntry{
			Timestamp: time.UnixMilli(int64(1000 * (i + 1))),
			Type:      domain.ActivityTaskCreated,
			Message:   "entry",
		})
	}

	out, err := uc.Execute(ctx, ListActivityInput{OwnerID: owner, Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, time.UnixMilli(5000), out.Entries[0].Timestamp, "newest first")
	assert.Equal(t, time.UnixMilli(4000), out.NextBefore)

	out, err = uc.Execute(ctx, ListActivityInput{OwnerID: owner, Limit: 2, Before: out.NextBefore})
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, time.UnixMilli(3000), out.Entries[0].Timestamp)

	out, err = uc.Execute(ctx, ListActivityInput{OwnerID: owner, Limit: 2, Before: out.NextBefore})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1, "last page is short")
	assert.True(t, out.NextBefore.IsZero(), "no cursor after the last page")
}
