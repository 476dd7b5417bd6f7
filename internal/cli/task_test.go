package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/config"
	"github.com/YuriiYurchuk/Focus-Flow/internal/testutil"
)

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(tasks *testutil.MockTaskStore, users *testutil.MockUserStore) *app.Container {
	cfg := config.NewDefault()
	cfg.Owner = "user-1"
	return app.NewWithDeps(
		cfg,
		tasks,
		users,
		&testutil.MockCatalog{},
		&testutil.MockClock{NowTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		testutil.NopLogger{},
	)
}

func seedTask(tasks *testutil.MockTaskStore, id, title string, status domain.Status) {
	tasks.Put("user-1", &domain.Task{
		ID:        id,
		Title:     title,
		Status:    status,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
}

// =============================================================================
// New Command Tests
// =============================================================================

func TestNewNewCommand_CreateTask(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newNewCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Write report"})

	err := cmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Created task ")

	require.Len(t, tasks.Tasks["user-1"], 1)
	for _, task := range tasks.Tasks["user-1"] {
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, domain.StatusNotStarted, task.Status)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
	}
}

func TestNewNewCommand_WithDeadline(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newNewCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "File taxes", "--priority", "high", "--due", "2026-04-15"})

	require.NoError(t, cmd.Execute())

	for _, task := range tasks.Tasks["user-1"] {
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		require.NotNil(t, task.Deadline)
		assert.Equal(t, 2026, task.Deadline.Year())
		assert.Equal(t, time.April, task.Deadline.Month())
	}
}

func TestNewNewCommand_InvalidDeadline(t *testing.T) {
	container := newTestContainer(testutil.NewMockTaskStore(), testutil.NewMockUserStore())

	cmd := newNewCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--title", "Bad", "--due", "next tuesday"})

	assert.ErrorContains(t, cmd.Execute(), "invalid deadline")
}

// =============================================================================
// List Command Tests
// =============================================================================

func TestNewListCommand_HidesCompletedByDefault(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Open task", domain.StatusNotStarted)
	seedTask(tasks, "t2", "Done task", domain.StatusCompleted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Open task")
	assert.NotContains(t, buf.String(), "Done task")
}

func TestNewListCommand_AllIncludesCompleted(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Open task", domain.StatusNotStarted)
	seedTask(tasks, "t2", "Done task", domain.StatusCompleted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--all"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Open task")
	assert.Contains(t, buf.String(), "Done task")
}

func TestNewListCommand_StatusFilter(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Open task", domain.StatusNotStarted)
	seedTask(tasks, "t2", "Paused task", domain.StatusPaused)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--status", "paused"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Paused task")
	assert.NotContains(t, buf.String(), "Open task")
}

func TestNewListCommand_UnknownStatus(t *testing.T) {
	container := newTestContainer(testutil.NewMockTaskStore(), testutil.NewMockUserStore())

	cmd := newListCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--status", "parked"})

	assert.ErrorContains(t, cmd.Execute(), "unknown status")
}

// =============================================================================
// Show Command Tests
// =============================================================================

func TestNewShowCommand(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Write report", domain.StatusPaused)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newShowCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Write report")
	assert.Contains(t, buf.String(), "Paused")
}

func TestNewShowCommand_NotFound(t *testing.T) {
	container := newTestContainer(testutil.NewMockTaskStore(), testutil.NewMockUserStore())

	cmd := newShowCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"absent"})

	assert.ErrorIs(t, cmd.Execute(), domain.ErrTaskNotFound)
}

// =============================================================================
// Edit Command Tests
// =============================================================================

func TestNewEditCommand_UpdatesTitle(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	seedTask(tasks, "t1", "Old title", domain.StatusNotStarted)
	container := newTestContainer(tasks, testutil.NewMockUserStore())

	cmd := newEditCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1", "--title", "New title"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "New title", tasks.Tasks["user-1"]["t1"].Title)
}

// =============================================================================
// Rm Command Tests
// =============================================================================

func TestNewRmCommand(t *testing.T) {
	tasks := testutil.NewMockTaskStore()
	users := testutil.NewMockUserStore()
	seedTask(tasks, "t1", "Victim", domain.StatusNotStarted)
	container := newTestContainer(tasks, users)

	cmd := newRmCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Deleted task t1")
	assert.Empty(t, tasks.Tasks["user-1"])
	// Deletion lands in the activity log.
	require.NotEmpty(t, users.Activity["user-1"])
	assert.Equal(t, domain.ActivityTaskDeleted, users.Activity["user-1"][len(users.Activity["user-1"])-1].Type)
}
