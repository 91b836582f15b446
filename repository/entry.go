package repository

import (
	"context"

	"github.com/lifemap/diary/domain"
)

// HistoryLimit caps the recent-entries query; the history dropdown shows at
// most the last ten saves.
const HistoryLimit = 10

// EntryRepository is the persistence contract for diary entries. Entries are
// keyed by (user, date): Upsert overwrites whatever the user previously saved
// under the same date.
type EntryRepository interface {
	GetByDate(ctx context.Context, userID, date string) (*domain.DiaryEntry, error)
	Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error)
	Recent(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error)
	Upsert(ctx context.Context, userID string, entry *domain.DiaryEntry) error
}
