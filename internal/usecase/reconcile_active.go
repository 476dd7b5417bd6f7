package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// ReconcileActiveInput contains the parameters for the reconciliation pass.
type ReconcileActiveInput struct {
	OwnerID string
}

// ReconcileActiveOutput reports what the pass did.
type ReconcileActiveOutput struct {
	KeptID    string   // The task left in-progress, empty if none
	PausedIDs []string // Tasks that were force-paused
}

// ReconcileActive resolves the rare dual-active state the single-document
// transaction primitive cannot prevent: two starts racing past the
// "no other active task" check before either write lands. The task with
// the most recent update stays active; every other in-progress task is
// paused through the normal transaction path. The pass is idempotent.
type ReconcileActive struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewReconcileActive creates a new ReconcileActive use case.
func NewReconcileActive(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *ReconcileActive {
	return &ReconcileActive{tasks: tasks, clock: clock, logger: logger}
}

// Execute detects and corrects a dual-active state for the owner.
func (uc *ReconcileActive) Execute(ctx context.Context, in ReconcileActiveInput) (*ReconcileActiveOutput, error) {
	status := domain.StatusInProgress
	actives, err := uc.tasks.List(ctx, in.OwnerID, domain.TaskFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}

	if len(actives) <= 1 {
		out := &ReconcileActiveOutput{}
		if len(actives) == 1 {
			out.KeptID = actives[0].ID
		}
		return out, nil
	}

	// Keep the most recently updated task active.
	keep := actives[0]
	for _, t := range actives[1:] {
		if t.UpdatedAt.After(keep.UpdatedAt) {
			keep = t
		}
	}

	uc.logger.Warn(in.OwnerID, "reconcile",
		fmt.Sprintf("%d tasks active at once, keeping %s", len(actives), keep.ID))

	now := uc.clock.Now()
	out := &ReconcileActiveOutput{KeptID: keep.ID}
	for _, t := range actives {
		if t.ID == keep.ID {
			continue
		}
		_, err := uc.tasks.Transact(ctx, in.OwnerID, t.ID, func(_ domain.TaskTx, task *domain.Task) error {
			if task.Status != domain.StatusInProgress {
				return nil // Already resolved concurrently
			}
			if active, last := domain.SessionState(task.Sessions); active && last != nil {
				end := now
				last.End = &end
			}
			task.Duration = domain.SessionsDuration(task.Sessions)
			task.Status = domain.StatusPaused
			te := now
			task.TimeEnd = &te
			task.UpdatedAt = now
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("pause task %s: %w", t.ID, err)
		}
		out.PausedIDs = append(out.PausedIDs, t.ID)
	}

	return out, nil
}
