package usecase

import (
	"context"
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// GrantAchievementsInput contains the parameters for achievement
// evaluation.
type GrantAchievementsInput struct {
	OwnerID string
}

// GrantAchievementsOutput lists the newly granted achievements.
type GrantAchievementsOutput struct {
	Granted []domain.Achievement
}

// GrantAchievements evaluates the catalog against the owner's stats and
// grants whatever is newly earned. Granting is idempotent: achievements
// already held are skipped, so re-running after a partial failure is
// safe.
type GrantAchievements struct {
	users   domain.UserStore
	catalog domain.AchievementCatalog
	clock   domain.Clock
	logger  domain.Logger
}

// NewGrantAchievements creates a new GrantAchievements use case.
func NewGrantAchievements(users domain.UserStore, catalog domain.AchievementCatalog, clock domain.Clock, logger domain.Logger) *GrantAchievements {
	return &GrantAchievements{users: users, catalog: catalog, clock: clock, logger: logger}
}

// Execute grants every catalog achievement whose condition the owner's
// stats now satisfy.
func (uc *GrantAchievements) Execute(ctx context.Context, in GrantAchievementsInput) (*GrantAchievementsOutput, error) {
	stats, err := uc.users.GetStats(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	held, err := uc.users.Grants(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get grants: %w", err)
	}
	heldIDs := make(map[string]bool, len(held))
	for _, g := range held {
		heldIDs[g.ID] = true
	}

	all, err := uc.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	now := uc.clock.Now()
	var earned []domain.Achievement
	var grants []domain.GrantedAchievement
	for _, a := range all {
		if heldIDs[a.ID] {
			continue
		}
		ok, err := a.Condition.Matches(stats)
		if err != nil {
			// A malformed catalog entry must not block the others.
			uc.logger.Error(in.OwnerID, "achievements", fmt.Sprintf("evaluate %s: %v", a.ID, err))
			continue
		}
		if ok {
			earned = append(earned, a)
			grants = append(grants, domain.GrantedAchievement{ID: a.ID, GrantedAt: now})
		}
	}

	if len(grants) == 0 {
		return &GrantAchievementsOutput{}, nil
	}

	if err := uc.users.AddGrants(ctx, in.OwnerID, grants); err != nil {
		return nil, fmt.Errorf("add grants: %w", err)
	}

	for _, a := range earned {
		entry := domain.ActivityEntry{
			Timestamp:     now,
			Type:          domain.ActivityAchievementGranted,
			Message:       fmt.Sprintf("Earned achievement %q", a.Title),
			AchievementID: a.ID,
		}
		if err := uc.users.AppendActivity(ctx, in.OwnerID, entry); err != nil {
			uc.logger.Warn(in.OwnerID, "activity", fmt.Sprintf("record grant of %s: %v", a.ID, err))
		}
	}

	uc.logger.Info(in.OwnerID, "achievements", fmt.Sprintf("granted %d achievements", len(earned)))

	return &GrantAchievementsOutput{Granted: earned}, nil
}
