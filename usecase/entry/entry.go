package entry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/repository"
	"github.com/lifemap/diary/usecase"
)

type UseCase struct {
	entries repository.EntryRepository
	feed    usecase.HistoryFeed
	logger  *zap.Logger

	now func() time.Time
}

func New(entries repository.EntryRepository, feed usecase.HistoryFeed, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		entries: entries,
		feed:    feed,
		logger:  logger,
		now:     time.Now,
	}
}

// Save normalizes, validates, stamps and upserts the entry under its date
// key, then signals history watchers and returns the saved entry together
// with its rendered text block. A failed history signal is logged and
// swallowed: the save already succeeded.
func (uc *UseCase) Save(ctx context.Context, userID string, entry *domain.DiaryEntry) (*domain.DiaryEntry, string, error) {
	if entry == nil {
		return nil, "", domain.ErrInvalidPayload
	}

	entry.Normalize()
	if err := entry.ValidateDate(); err != nil {
		return nil, "", err
	}
	entry.Stamp(uc.now())

	rendered := domain.Render(*entry)

	if err := uc.entries.Upsert(ctx, userID, entry); err != nil {
		return nil, "", err
	}

	if uc.feed != nil {
		if err := uc.feed.NotifyChanged(ctx, userID); err != nil {
			uc.logger.Warn("history notify failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	uc.logger.Info("entry saved",
		zap.String("user_id", userID),
		zap.String("date", entry.Date))
	return entry, rendered, nil
}

// Get fetches the entry stored under the given date key.
func (uc *UseCase) Get(ctx context.Context, userID, date string) (*domain.DiaryEntry, error) {
	return uc.entries.GetByDate(ctx, userID, date)
}

// Latest fetches the single most recently saved entry.
func (uc *UseCase) Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error) {
	return uc.entries.Latest(ctx, userID)
}

// Recent fetches the newest entries ordered by save timestamp descending,
// capped at the history limit.
func (uc *UseCase) Recent(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error) {
	if limit <= 0 || limit > repository.HistoryLimit {
		limit = repository.HistoryLimit
	}
	return uc.entries.Recent(ctx, userID, limit)
}

// Render regenerates the text block for an already-stored entry.
func (uc *UseCase) Render(ctx context.Context, userID, date string) (string, error) {
	stored, err := uc.entries.GetByDate(ctx, userID, date)
	if err != nil {
		return "", err
	}
	return domain.Render(*stored), nil
}

// HistoryWatch is a live view over a user's recent entries. Each element on
// Snapshots is the complete current history, never an increment; consumers
// replace their state wholesale.
type HistoryWatch struct {
	snapshots chan []domain.DiaryEntry
	sub       usecase.FeedSubscription
}

// Snapshots yields full history snapshots, newest save first. The channel
// closes when the watch is closed or its context ends.
func (w *HistoryWatch) Snapshots() <-chan []domain.DiaryEntry {
	return w.snapshots
}

// Close tears down the underlying feed subscription.
func (w *HistoryWatch) Close() error {
	return w.sub.Close()
}

// Watch subscribes to the user's history. An initial snapshot is delivered
// immediately; afterwards every change signal triggers a requery. The watch
// ends when ctx is cancelled or Close is called.
func (uc *UseCase) Watch(ctx context.Context, userID string) (*HistoryWatch, error) {
	sub, err := uc.feed.Subscribe(ctx, userID)
	if err != nil {
		return nil, err
	}

	watch := &HistoryWatch{
		snapshots: make(chan []domain.DiaryEntry, 1),
		sub:       sub,
	}

	go func() {
		defer close(watch.snapshots)
		defer sub.Close()

		if !uc.deliver(ctx, userID, watch) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Changes():
				if !ok {
					return
				}
				if !uc.deliver(ctx, userID, watch) {
					return
				}
			}
		}
	}()

	return watch, nil
}

func (uc *UseCase) deliver(ctx context.Context, userID string, watch *HistoryWatch) bool {
	entries, err := uc.entries.Recent(ctx, userID, repository.HistoryLimit)
	if err != nil {
		uc.logger.Warn("history snapshot query failed", zap.String("user_id", userID), zap.Error(err))
		return ctx.Err() == nil
	}
	select {
	case watch.snapshots <- entries:
		return true
	case <-ctx.Done():
		return false
	}
}
