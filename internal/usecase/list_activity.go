package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// defaultActivityPageSize bounds a page when the caller does not ask for
// a specific size.
const defaultActivityPageSize = 20

// ListActivityInput selects a page of the owner's activity log.
type ListActivityInput struct {
	Before  time.Time // Zero = newest entries
	OwnerID string
	Limit   int
}

// ListActivityOutput contains one page, newest first, plus the cursor
// for the next page.
type ListActivityOutput struct {
	NextBefore time.Time // Zero when there is no further page
	Entries    []domain.ActivityEntry
}

// ListActivity pages through the activity log with a timestamp cursor.
type ListActivity struct {
	users domain.UserStore
}

// NewListActivity creates a new ListActivity use case.
func NewListActivity(users domain.UserStore) *ListActivity {
	return &ListActivity{users: users}
}

// Execute returns one page of activity entries.
func (uc *ListActivity) Execute(ctx context.Context, in ListActivityInput) (*ListActivityOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultActivityPageSize
	}

	entries, err := uc.users.ListActivity(ctx, in.OwnerID, domain.ActivityQuery{
		Before: in.Before,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := &ListActivityOutput{Entries: entries}
	if len(entries) == limit {
		out.NextBefore = entries[len(entries)-1].Timestamp
	}
	return out, nil
}
