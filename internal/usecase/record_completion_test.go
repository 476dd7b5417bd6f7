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

func completedTask(id string, completedAt time.Time, deadline *time.Time) *domain.Task {
	return &domain.Task{
		ID:       id,
		Title:    "Task " + id,
		Status:   domain.StatusCompleted,
		Priority: domain.PriorityMedium,
		Deadline: deadline,
		TimeEnd:  &completedAt,
	}
}

func TestRecordCompletion_Execute_BeforeDeadline(t *testing.T) {
	users := testutil.NewMockUserStore()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	clock := &testutil.MockClock{NowTime: now}
	uc := NewRecordCompletion(users, clock, testutil.NopLogger{})

	deadline := now.Add(24 * time.Hour)
	out, err := uc.Execute(context.Background(), RecordCompletionInput{
		OwnerID: owner,
		Task:    completedTask("t1", now, &deadline),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Stats.CompletedTasksCount)
	assert.Equal(t, int64(1), out.Stats.EarlyTasksCount)
	assert.Equal(t, int64(0), out.Stats.LateTasksCount)
	assert.Equal(t, int64(1), out.Stats.Streak)

	require.Len(t, users.Activity[owner], 1)
	assert.Equal(t, domain.ActivityTaskCompleted, users.Activity[owner][0].Type)
}

func TestRecordCompletion_Execute_AfterDeadline(t *testing.T) {
	users := testutil.NewMockUserStore()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	uc := NewRecordCompletion(users, &testutil.MockClock{NowTime: now}, testutil.NopLogger{})

	deadline := now.Add(-time.Hour)
	out, err := uc.Execute(context.Background(), RecordCompletionInput{
		OwnerID: owner,
		Task:    completedTask("t1", now, &deadline),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Stats.LateTasksCount)
	assert.Equal(t, int64(1), out.Stats.MissedDeadlinesCount)
	assert.Equal(t, int64(0), out.Stats.EarlyTasksCount)
}

func TestRecordCompletion_Execute_StreakProgression(t *testing.T) {
	users := testutil.NewMockUserStore()
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := &testutil.MockClock{NowTime: day1}
	uc := NewRecordCompletion(users, clock, testutil.NopLogger{})
	ctx := context.Background()

	// Day 1
	out, err := uc.Execute(ctx, RecordCompletionInput{OwnerID: owner, Task: completedTask("t1", day1, nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Stats.Streak)

	// Same day: streak unchanged
	later := day1.Add(3 * time.Hour)
	clock.NowTime = later
	out, err = uc.Execute(ctx, RecordCompletionInput{OwnerID: owner, Task: completedTask("t2", later, nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Stats.Streak)

	// Next day: streak extends
	day2 := day1.Add(24 * time.Hour)
	clock.NowTime = day2
	out, err = uc.Execute(ctx, RecordCompletionInput{OwnerID: owner, Task: completedTask("t3", day2, nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Stats.Streak)

	// Three-day gap: streak breaks
	day5 := day2.Add(72 * time.Hour)
	clock.NowTime = day5
	out, err = uc.Execute(ctx, RecordCompletionInput{OwnerID: owner, Task: completedTask("t4", day5, nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Stats.Streak)
	assert.Equal(t, int64(1), out.Stats.StreakBreaksCount)
	assert.Equal(t, int64(4), out.Stats.CompletedTasksCount)
}
