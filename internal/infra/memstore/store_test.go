package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

const owner = "user-1"

func newTask(id string, created time.Time) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    domain.StatusNotStarted,
		Priority:  domain.PriorityMedium,
		CreatedAt: created,
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Create(ctx, owner, newTask("t1", now)))
	require.ErrorIs(t, s.Create(ctx, owner, newTask("t1", now)), domain.ErrTaskExists)

	got, err := s.Get(ctx, owner, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Task t1", got.Title)
	require.Equal(t, int64(1), got.Rev)

	missing, err := s.Get(ctx, owner, "absent")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, s.Delete(ctx, owner, "t1"))
	got, err = s.Get(ctx, owner, "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting an already-deleted task is fine.
	require.NoError(t, s.Delete(ctx, owner, "t1"))
}

func TestStore_ListFiltersAndOrders(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now()

	a := newTask("a", base.Add(2*time.Second))
	b := newTask("b", base)
	c := newTask("c", base.Add(time.Second))
	c.Priority = domain.PriorityHigh
	for _, task := range []*domain.Task{a, b, c} {
		require.NoError(t, s.Create(ctx, owner, task))
	}

	all, err := s.List(ctx, owner, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "c", all[1].ID)
	require.Equal(t, "a", all[2].ID)

	high := domain.PriorityHigh
	filtered, err := s.List(ctx, owner, domain.TaskFilter{Priority: &high})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "c", filtered[0].ID)
}

func TestStore_TransactCommitsAndBumpsRev(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, owner, newTask("t1", time.Now())))

	updated, err := s.Transact(ctx, owner, "t1", func(_ domain.TaskTx, task *domain.Task) error {
		task.Status = domain.StatusInProgress
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)
	require.Equal(t, int64(2), updated.Rev)

	stored, err := s.Get(ctx, owner, "t1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestStore_TransactErrorDiscardsChanges(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, owner, newTask("t1", time.Now())))

	_, err := s.Transact(ctx, owner, "t1", func(_ domain.TaskTx, task *domain.Task) error {
		task.Title = "mutated"
		return domain.ErrSessionActive
	})
	require.ErrorIs(t, err, domain.ErrSessionActive)

	stored, err := s.Get(ctx, owner, "t1")
	require.NoError(t, err)
	require.Equal(t, "Task t1", stored.Title)
	require.Equal(t, int64(1), stored.Rev)
}

func TestStore_TransactMissingTask(t *testing.T) {
	s := New()
	_, err := s.Transact(context.Background(), owner, "absent", func(_ domain.TaskTx, _ *domain.Task) error {
		return nil
	})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_ActiveTaskExists(t *testing.T) {
	s := New()
	ctx := context.Background()
	active := newTask("t1", time.Now())
	active.Status = domain.StatusInProgress
	require.NoError(t, s.Create(ctx, owner, active))
	require.NoError(t, s.Create(ctx, owner, newTask("t2", time.Now())))

	exists, err := s.ActiveTaskExists(ctx, owner, "t2")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.ActiveTaskExists(ctx, owner, "t1")
	require.NoError(t, err)
	require.False(t, exists)

	// The same check is visible inside a transaction.
	_, err = s.Transact(ctx, owner, "t2", func(tx domain.TaskTx, _ *domain.Task) error {
		got, terr := tx.ActiveTaskExists("t2")
		require.NoError(t, terr)
		require.True(t, got)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_WatchDeliversCurrentThenUpdates(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, owner, newTask("t1", time.Now())))

	var seen []*domain.Task
	unsubscribe, err := s.Watch(ctx, owner, "t1", func(task *domain.Task) {
		seen = append(seen, task)
	}, nil)
	require.NoError(t, err)
	defer unsubscribe()

	require.Len(t, seen, 1)
	require.Equal(t, domain.StatusNotStarted, seen[0].Status)

	_, err = s.Transact(ctx, owner, "t1", func(_ domain.TaskTx, task *domain.Task) error {
		task.Status = domain.StatusInProgress
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.Equal(t, domain.StatusInProgress, seen[1].Status)

	require.NoError(t, s.Delete(ctx, owner, "t1"))
	require.Len(t, seen, 3)
	require.Nil(t, seen[2])
}

func TestStore_WatchMissingTaskAndUnsubscribe(t *testing.T) {
	s := New()
	ctx := context.Background()

	var seen []*domain.Task
	unsubscribe, err := s.Watch(ctx, owner, "t1", func(task *domain.Task) {
		seen = append(seen, task)
	}, nil)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	require.Nil(t, seen[0])

	unsubscribe()
	unsubscribe() // Idempotent.

	require.NoError(t, s.Create(ctx, owner, newTask("t1", time.Now())))
	require.Len(t, seen, 1)
}

func TestStore_StatsAndGrants(t *testing.T) {
	s := New()
	ctx := context.Background()

	stats, err := s.GetStats(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, stats.CompletedTasksCount)

	updated, err := s.UpdateStats(ctx, owner, func(st *domain.UserStats) error {
		st.CompletedTasksCount++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.CompletedTasksCount)

	granted := time.Now()
	require.NoError(t, s.AddGrants(ctx, owner, []domain.GrantedAchievement{
		{ID: "a1", GrantedAt: granted},
	}))
	require.NoError(t, s.AddGrants(ctx, owner, []domain.GrantedAchievement{
		{ID: "a1", GrantedAt: granted},
		{ID: "a2", GrantedAt: granted},
	}))

	grants, err := s.Grants(ctx, owner)
	require.NoError(t, err)
	require.Len(t, grants, 2)
}

func TestStore_ActivityPagination(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendActivity(ctx, owner, domain.ActivityEntry{
			Type:      domain.ActivityTaskCreated,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := s.ListActivity(ctx, owner, domain.ActivityQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, base.Add(4*time.Minute), page[0].Timestamp)

	older, err := s.ListActivity(ctx, owner, domain.ActivityQuery{
		Before: page[1].Timestamp,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, older, 2)
	require.Equal(t, base.Add(2*time.Minute), older[0].Timestamp)
}
