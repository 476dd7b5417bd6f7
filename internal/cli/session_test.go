package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/testutil"
)

func TestNewStartCommand(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Focus work", domain.StatusNotStarted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newStartCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Started t1")

	task := tasks.Tasks["user-1"]["t1"]
	assert.Equal(t, domain.StatusInProgress, task.Status)
	require.Len(t, task.Sessions, 1)
	assert.Nil(t, task.Sessions[0].End)
}

func TestNewStartCommand_ConflictingActive(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Focus work", domain.StatusNotStarted)
	tasks.ActiveExistsVal = true
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newStartCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"t1"})

	assert.ErrorIs(t, cmd.Execute(), domain.ErrConflictingActiveTask)
}

func TestNewPauseCommand(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	start := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	tasks.Put("user-1", &domain.Task{
		ID:       "t1",
		Title:    "Focus work",
		Status:   domain.StatusInProgress,
		Priority: domain.PriorityMedium,
		Sessions: []domain.Session{{Start: start}},
	})
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newPauseCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1"})

	require.NoError(t, cmd.Execute())
	// Clock is fixed at 12:00, one hour after the session opened.
	assert.Contains(t, buf.String(), "Paused t1, tracked 1:00:00")
	assert.Equal(t, domain.StatusPaused, tasks.Tasks["user-1"]["t1"].Status)
}

func TestNewPauseCommand_NoActiveSession(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Idle task", domain.StatusNotStarted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newPauseCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"t1"})

	assert.ErrorIs(t, cmd.Execute(), domain.ErrNoActiveSession)
}

func TestNewCompleteCommand_RecordsStatsAndGrants(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	users := testutil.NewMockUserStore()
	start := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	tasks.Put("user-1", &domain.Task{
		ID:       "t1",
		Title:    "Focus work",
		Status:   domain.StatusInProgress,
		Priority: domain.PriorityMedium,
		Sessions: []domain.Session{{Start: start}},
	})
	container := newTestContainer(tasks, users)
	container.Catalog = &testutil.MockCatalog{Achievements: []domain.Achievement{{
		ID:    "first-step",
		Title: "First Step",
		Icon:  "🏁",
		Condition: domain.Condition{
			Kind:  domain.ConditionGreaterOrEqual,
			Field: domain.StatCompletedTasks,
			Goal:  1,
		},
	}}}

	cmd := newCompleteCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Completed t1")
	assert.Contains(t, buf.String(), "Achievement unlocked: 🏁 First Step")

	assert.Equal(t, domain.StatusCompleted, tasks.Tasks["user-1"]["t1"].Status)
	assert.Equal(t, int64(1), users.Stats["user-1"].CompletedTasksCount)
	require.Len(t, users.GrantsByID["user-1"], 1)
	assert.Equal(t, "first-step", users.GrantsByID["user-1"][0].ID)
}

func TestNewReconcileCommand(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	tasks.Put("user-1", &domain.Task{
		ID: "t1", Title: "Stale", Status: domain.StatusInProgress,
		Priority: domain.PriorityMedium, UpdatedAt: older,
		Sessions: []domain.Session{{Start: older}},
	})
	tasks.Put("user-1", &domain.Task{
		ID: "t2", Title: "Fresh", Status: domain.StatusInProgress,
		Priority: domain.PriorityMedium, UpdatedAt: newer,
		Sessions: []domain.Session{{Start: newer}},
	})
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newReconcileCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Kept t2")
	assert.Contains(t, buf.String(), "paused t1")
	assert.Equal(t, domain.StatusPaused, tasks.Tasks["user-1"]["t1"].Status)
	assert.Equal(t, domain.StatusInProgress, tasks.Tasks["user-1"]["t2"].Status)
}

func TestNewReconcileCommand_NothingToDo(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Only task", domain.StatusNotStarted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newReconcileCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Nothing to reconcile")
}
