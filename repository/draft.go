package repository

import (
	"context"
	"time"

	"github.com/lifemap/diary/domain"
)

// DraftRepository stores the per-user in-progress form state in the local
// draft database. Get returns domain.ErrDraftNotFound when the user has no
// saved draft.
type DraftRepository interface {
	Get(ctx context.Context, userID string) (*domain.Draft, error)
	Put(ctx context.Context, userID string, draft *domain.Draft) error
	Delete(ctx context.Context, userID string) error

	// PruneOlderThan removes drafts untouched since the cutoff and reports
	// how many were dropped.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Size returns the number of stored drafts, surfaced by the monitor.
	Size() (int, error)
}
