package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// RecordCompletionInput carries the just-completed task.
type RecordCompletionInput struct {
	Task    *domain.Task
	OwnerID string
}

// RecordCompletionOutput contains the updated stats.
type RecordCompletionOutput struct {
	Stats *domain.UserStats
}

// RecordCompletion updates the owner's stats and activity log after a
// task completes. It runs after CompleteTask succeeds and is invoked by
// the surrounding application layer, never by the timer core itself.
type RecordCompletion struct {
	users  domain.UserStore
	clock  domain.Clock
	logger domain.Logger
}

// NewRecordCompletion creates a new RecordCompletion use case.
func NewRecordCompletion(users domain.UserStore, clock domain.Clock, logger domain.Logger) *RecordCompletion {
	return &RecordCompletion{users: users, clock: clock, logger: logger}
}

// Execute bumps the completion counters, classifies the completion
// against the deadline, maintains the daily streak, and appends an
// activity entry.
func (uc *RecordCompletion) Execute(ctx context.Context, in RecordCompletionInput) (*RecordCompletionOutput, error) {
	now := uc.clock.Now()
	completedAt := now
	if in.Task.TimeEnd != nil {
		completedAt = *in.Task.TimeEnd
	}

	stats, err := uc.users.UpdateStats(ctx, in.OwnerID, func(s *domain.UserStats) error {
		s.CompletedTasksCount++

		if in.Task.Deadline != nil {
			if completedAt.After(*in.Task.Deadline) {
				s.LateTasksCount++
				s.MissedDeadlinesCount++
			} else {
				s.EarlyTasksCount++
			}
		}

		updateStreak(s, completedAt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	entry := domain.ActivityEntry{
		Timestamp: now,
		Type:      domain.ActivityTaskCompleted,
		Message:   fmt.Sprintf("Completed task %q", in.Task.Title),
		TaskID:    in.Task.ID,
	}
	if err := uc.users.AppendActivity(ctx, in.OwnerID, entry); err != nil {
		uc.logger.Warn(in.OwnerID, "activity", fmt.Sprintf("record completion of %s: %v", in.Task.ID, err))
	}

	return &RecordCompletionOutput{Stats: stats}, nil
}

// updateStreak maintains the consecutive-day completion streak.
// Same-day completions leave the streak untouched; a next-day completion
// extends it; a longer gap breaks it and starts over at one.
func updateStreak(s *domain.UserStats, completedAt time.Time) {
	day := completedAt.Truncate(24 * time.Hour)
	if s.LastCompletedAt == nil {
		s.Streak = 1
	} else {
		lastDay := s.LastCompletedAt.Truncate(24 * time.Hour)
		switch {
		case day.Equal(lastDay):
			// Same day, streak unchanged
		case day.Sub(lastDay) == 24*time.Hour:
			s.Streak++
		default:
			s.StreakBreaksCount++
			s.Streak = 1
		}
	}
	t := completedAt
	s.LastCompletedAt = &t
}
