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

func activeTask(id string, startedAt, updatedAt time.Time) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    domain.StatusInProgress,
		Priority:  domain.PriorityMedium,
		UpdatedAt: updatedAt,
		Sessions:  []domain.Session{{Start: startedAt}},
	}
}

func TestReconcileActive_Execute_DualActive(t *testing.T) {
	store := testutil.NewMockTaskStore()
	clock := &testutil.MockClock{NowTime: time.UnixMilli(10000)}
	uc := NewReconcileActive(store, clock, testutil.NopLogger{})

	// Two tasks slipped past the cross-document check; t2 is newer.
	store.Put(owner, activeTask("t1", time.UnixMilli(1000), time.UnixMilli(1000)))
	store.Put(owner, activeTask("t2", time.UnixMilli(2000), time.UnixMilli(2000)))

	out, err := uc.Execute(context.Background(), ReconcileActiveInput{OwnerID: owner})

	require.NoError(t, err)
	assert.Equal(t, "t2", out.KeptID)
	assert.Equal(t, []string{"t1"}, out.PausedIDs)

	paused := store.Tasks[owner]["t1"]
	assert.Equal(t, domain.StatusPaused, paused.Status)
	require.NotNil(t, paused.Sessions[0].End)
	assert.Equal(t, time.UnixMilli(10000), *paused.Sessions[0].End)
	assert.Equal(t, 9000*time.Millisecond, paused.Duration)

	kept := store.Tasks[owner]["t2"]
	assert.Equal(t, domain.StatusInProgress, kept.Status)
	assert.Nil(t, kept.Sessions[0].End, "kept task stays active")
}

func TestReconcileActive_Execute_SingleActive_NoOp(t *testing.T) {
	store := testutil.NewMockTaskStore()
	uc := NewReconcileActive(store, &testutil.MockClock{}, testutil.NopLogger{})

	store.Put(owner, activeTask("t1", time.UnixMilli(1000), time.UnixMilli(1000)))

	out, err := uc.Execute(context.Background(), ReconcileActiveInput{OwnerID: owner})

	require.NoError(t, err)
	assert.Equal(t, "t1", out.KeptID)
	assert.Empty(t, out.PausedIDs)
	assert.Equal(t, int64(0), store.Tasks[owner]["t1"].Rev, "no writes on a clean state")
}

func TestReconcileActive_Execute_Idempotent(t *testing.T) {
	store := testutil.NewMockTaskStore()
	clock := &testutil.MockClock{NowTime: time.UnixMilli(10000)}
	uc := NewReconcileActive(store, clock, testutil.NopLogger{})

	store.Put(owner, activeTask("t1", time.UnixMilli(1000), time.UnixMilli(1000)))
	store.Put(owner, activeTask("t2", time.UnixMilli(2000), time.UnixMilli(2000)))

	ctx := context.Background()
	_, err := uc.Execute(ctx, ReconcileActiveInput{OwnerID: owner})
	require.NoError(t, err)

	out, err := uc.Execute(ctx, ReconcileActiveInput{OwnerID: owner})
	require.NoError(t, err)
	assert.Equal(t, "t2", out.KeptID)
	assert.Empty(t, out.PausedIDs, "second pass must find nothing to do")
}

func TestReconcileActive_Execute_NoActives(t *testing.T) {
	store := testutil.NewMockTaskStore()
	uc := NewReconcileActive(store, &testutil.MockClock{}, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), ReconcileActiveInput{OwnerID: owner})

	require.NoError(t, err)
	assert.Empty(t, out.KeptID)
	assert.Empty(t, out.PausedIDs)
}
