package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "achievements.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFile_Defaults(t *testing.T) {
	achievements, err := New("").List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, achievements)

	for _, a := range achievements {
		require.NotEmpty(t, a.ID)
		require.NotEmpty(t, a.Title)
		// Every built-in condition must evaluate without error.
		_, err := a.Condition.Matches(&domain.UserStats{})
		require.NoError(t, err, "achievement %s", a.ID)
	}
}

func TestFile_List(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - id: ten-tasks
    title: Ten Tasks
    description: Complete ten tasks.
    condition:
      kind: greaterOrEqual
      field: completedTasksCount
      goal: 10
  - id: dark-side
    title: Dark Side
    condition:
      kind: equal
      field: enabledDarkMode
      goal: 1
`)

	achievements, err := New(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, achievements, 2)
	require.Equal(t, "ten-tasks", achievements[0].ID)
	require.Equal(t, domain.ConditionGreaterOrEqual, achievements[0].Condition.Kind)
	require.Equal(t, domain.StatCompletedTasks, achievements[0].Condition.Field)
	require.Equal(t, int64(10), achievements[0].Condition.Goal)
	require.Equal(t, domain.ConditionEqual, achievements[1].Condition.Kind)
}

func TestFile_MissingID(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - title: Nameless
    condition:
      kind: equal
      field: streak
      goal: 1
`)
	_, err := New(path).List(context.Background())
	require.ErrorContains(t, err, "missing id")
}

func TestFile_DuplicateID(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - id: twin
    title: Twin A
    condition: {kind: equal, field: streak, goal: 1}
  - id: twin
    title: Twin B
    condition: {kind: equal, field: streak, goal: 2}
`)
	_, err := New(path).List(context.Background())
	require.ErrorContains(t, err, "duplicate id")
}

func TestFile_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml")).List(context.Background())
	require.Error(t, err)
}

func TestFile_InvalidYAML(t *testing.T) {
	path := writeCatalog(t, "achievements: [unclosed")
	_, err := New(path).List(context.Background())
	require.ErrorContains(t, err, "parse catalog")
}
