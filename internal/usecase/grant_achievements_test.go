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

func testCatalog() *testutil.MockCatalog {
	return &testutil.MockCatalog{Achievements: []domain.Achievement{
		{
			ID:        "first-task",
			Title:     "First Steps",
			Condition: domain.Condition{Kind: domain.ConditionGreaterOrEqual, Field: domain.StatCompletedTasks, Goal: 1},
		},
		{
			ID:        "ten-tasks",
			Title:     "Productive",
			Condition: domain.Condition{Kind: domain.ConditionGreaterOrEqual, Field: domain.StatCompletedTasks, Goal: 10},
		},
		{
			ID:        "night-owl",
			Title:     "Dark Side",
			Condition: domain.Condition{Kind: domain.ConditionEqual, Field: domain.StatDarkModeEnabled, Goal: 1},
		},
	}}
}

func TestGrantAchievements_Execute_GrantsEarned(t *testing.T) {
	users := testutil.NewMockUserStore()
	users.Stats[owner] = &domain.UserStats{CompletedTasksCount: 3}
	clock := &testutil.MockClock{NowTime: time.UnixMilli(1000)}
	uc := NewGrantAchievements(users, testCatalog(), clock, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), GrantAchievementsInput{OwnerID: owner})

	require.NoError(t, err)
	require.Len(t, out.Granted, 1)
	assert.Equal(t, "first-task", out.Granted[0].ID)

	grants, _ := users.Grants(context.Background(), owner)
	require.Len(t, grants, 1)
	assert.Equal(t, time.UnixMilli(1000), grants[0].GrantedAt)

	// One activity entry per grant
	require.Len(t, users.Activity[owner], 1)
	assert.Equal(t, domain.ActivityAchievementGranted, users.Activity[owner][0].Type)
	assert.Equal(t, "first-task", users.Activity[owner][0].AchievementID)
}

func TestGrantAchievements_Execute_Idempotent(t *testing.T) {
	users := testutil.NewMockUserStore()
	users.Stats[owner] = &domain.UserStats{CompletedTasksCount: 3}
	clock := &testutil.MockClock{NowTime: time.UnixMilli(1000)}
	uc := NewGrantAchievements(users, testCatalog(), clock, testutil.NopLogger{})

	ctx := context.Background()
	_, err := uc.Execute(ctx, GrantAchievementsInput{OwnerID: owner})
	require.NoError(t, err)

	out, err := uc.Execute(ctx, GrantAchievementsInput{OwnerID: owner})
	require.NoError(t, err)
	assert.Empty(t, out.Granted, "already held achievements must not re-grant")

	grants, _ := users.Grants(ctx, owner)
	assert.Len(t, grants, 1)
}

func TestGrantAchievements_Execute_NothingEarned(t *testing.T) {
	users := testutil.NewMockUserStore()
	uc := NewGrantAchievements(users, testCatalog(), &testutil.MockClock{}, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), GrantAchievementsInput{OwnerID: owner})

	require.NoError(t, err)
	assert.Empty(t, out.Granted)
	assert.Empty(t, users.Activity[owner])
}
