package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/pkg/timeutil"
	"github.com/lifemap/diary/repository"
)

// EntryService is the slice of the entry use case the draft controller needs:
// saving the assembled entry and loading stored ones back into the form.
type EntryService interface {
	Save(ctx context.Context, userID string, entry *domain.DiaryEntry) (*domain.DiaryEntry, string, error)
	Get(ctx context.Context, userID, date string) (*domain.DiaryEntry, error)
	Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error)
}

// Defaults seed a brand-new draft.
type Defaults struct {
	ConsecutiveDay   int
	AccumulatedCount int
}

// UseCase drives the journal form: it owns one draft per user (scalar fields
// plus the work item list) and maps every user action onto a single list or
// entry operation. State mutations are serialized by a lock; the underlying
// list is plain single-threaded structure.
type UseCase struct {
	drafts   repository.DraftRepository
	entries  EntryService
	defaults Defaults
	logger   *zap.Logger

	now func() time.Time

	mu   sync.Mutex
	open map[string]*formState
}

type formState struct {
	draft *domain.Draft
	list  *domain.WorkList
}

func New(drafts repository.DraftRepository, entries EntryService, defaults Defaults, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.ConsecutiveDay < 1 {
		defaults.ConsecutiveDay = 1
	}
	if defaults.AccumulatedCount < 1 {
		defaults.AccumulatedCount = 1
	}
	return &UseCase{
		drafts:   drafts,
		entries:  entries,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
		open:     make(map[string]*formState),
	}
}

// Get returns the user's current draft, creating a fresh one dated today when
// none exists.
func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, created, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if created {
		if err := uc.persist(ctx, userID, st); err != nil {
			return nil, err
		}
	}
	return uc.view(st), nil
}

// Replace overwrites the whole form at once, the way a full client-side sync
// does. Items from both partitions are re-partitioned by their completion
// flag and receive fresh handles.
func (uc *UseCase) Replace(ctx context.Context, userID string, next *domain.Draft) (*domain.Draft, error) {
	if next == nil {
		return nil, domain.ErrInvalidPayload
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	copied := *next
	st.draft = &copied
	st.list.Load(append(append([]domain.WorkItem(nil), next.Active...), next.Completed...))
	uc.ensureBlankRow(st)
	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, err
	}
	return uc.view(st), nil
}

// AddItem appends a blank (or pre-filled) item to the active list.
func (uc *UseCase) AddItem(ctx context.Context, userID string, initial *domain.WorkItem) (string, *domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	id := st.list.Add(initial)
	if err := uc.persist(ctx, userID, st); err != nil {
		return "", nil, err
	}
	return id, uc.view(st), nil
}

// RemoveItem deletes the item. An unknown handle is a no-op, not an error.
func (uc *UseCase) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Draft, error) {
	return uc.mutateList(ctx, userID, func(list *domain.WorkList) {
		list.Remove(itemID)
	})
}

// EditItem updates the item's text fields, bumping its modified timestamp.
func (uc *UseCase) EditItem(ctx context.Context, userID, itemID string, title, detail *string) (*domain.Draft, error) {
	return uc.mutateList(ctx, userID, func(list *domain.WorkList) {
		list.Edit(itemID, title, detail)
	})
}

// SetItemTimestamps applies the timestamp-adjustment action.
func (uc *UseCase) SetItemTimestamps(ctx context.Context, userID, itemID string, createdAt, modifiedAt time.Time) (*domain.Draft, error) {
	return uc.mutateList(ctx, userID, func(list *domain.WorkList) {
		list.SetTimestamps(itemID, createdAt, modifiedAt)
	})
}

// ToggleItem moves the item between the active and completed partitions and
// returns its new handle ("" when the handle was unknown).
func (uc *UseCase) ToggleItem(ctx context.Context, userID, itemID string) (string, *domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	newID := st.list.ToggleCompleted(itemID)
	uc.ensureBlankRow(st)
	if err := uc.persist(ctx, userID, st); err != nil {
		return "", nil, err
	}
	return newID, uc.view(st), nil
}

// Move directions accepted by MoveItem.
const (
	MoveTop    = "top"
	MoveBottom = "bottom"
	MoveUp     = "up"
	MoveDown   = "down"
)

// MoveItem repositions an active item. Boundary moves are no-ops.
func (uc *UseCase) MoveItem(ctx context.Context, userID, itemID, direction string) (*domain.Draft, error) {
	var op func(list *domain.WorkList)
	switch direction {
	case MoveTop:
		op = func(list *domain.WorkList) { list.MoveToTop(itemID) }
	case MoveBottom:
		op = func(list *domain.WorkList) { list.MoveToBottom(itemID) }
	case MoveUp:
		op = func(list *domain.WorkList) { list.MoveUp(itemID) }
	case MoveDown:
		op = func(list *domain.WorkList) { list.MoveDown(itemID) }
	default:
		return nil, domain.ErrInvalidPayload
	}
	return uc.mutateList(ctx, userID, op)
}

// Save assembles the draft into a diary entry, persists it and returns the
// stored entry with its rendered text block.
func (uc *UseCase) Save(ctx context.Context, userID string) (*domain.DiaryEntry, string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.saveLocked(ctx, userID)
}

func (uc *UseCase) saveLocked(ctx context.Context, userID string) (*domain.DiaryEntry, string, error) {
	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	entry := st.draft.Entry(st.list.CollectAll())
	return uc.entries.Save(ctx, userID, &entry)
}

// NextDay saves the current form, then advances the date one calendar day and
// bumps both counters. The save is issued first so one-entry-per-date
// semantics hold; a failed save aborts the advance. When an entry already
// exists at the new date it is loaded into the form, and the second return
// value reports that.
func (uc *UseCase) NextDay(ctx context.Context, userID string) (*domain.Draft, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if st.draft.Date == "" {
		st.draft.Date = timeutil.Today(uc.now())
		if err := uc.persist(ctx, userID, st); err != nil {
			return nil, false, err
		}
		return uc.view(st), false, nil
	}

	if _, _, err := uc.saveLocked(ctx, userID); err != nil {
		return nil, false, err
	}

	next, err := timeutil.NextDay(st.draft.Date)
	if err != nil {
		return nil, false, domain.ErrInvalidDate
	}
	st.draft.Date = next
	st.draft.ConsecutiveDay = bumpCounter(st.draft.ConsecutiveDay)
	st.draft.AccumulatedCount = bumpCounter(st.draft.AccumulatedCount)

	loadedExisting := false
	stored, err := uc.entries.Get(ctx, userID, next)
	switch {
	case err == nil:
		uc.loadEntryLocked(st, stored)
		loadedExisting = true
	case errors.Is(err, domain.ErrEntryNotFound):
		// Keep the current form content under the new date.
	default:
		return nil, false, err
	}

	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, false, err
	}
	return uc.view(st), loadedExisting, nil
}

// Today resets the form date to the current calendar date in the display
// timezone.
func (uc *UseCase) Today(ctx context.Context, userID string) (*domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.draft.Date = timeutil.Today(uc.now())
	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, err
	}
	return uc.view(st), nil
}

// LoadEntry overwrites the form with a stored entry, the history-dropdown
// selection. The client confirms with the user before calling; unsaved form
// content is replaced wholesale.
func (uc *UseCase) LoadEntry(ctx context.Context, userID, date string) (*domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	stored, err := uc.entries.Get(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	uc.loadEntryLocked(st, stored)
	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, err
	}
	return uc.view(st), nil
}

// LoadLatest pulls the most recent entry into the form, used right after
// sign-in. Returns false with an untouched draft when the store is empty.
func (uc *UseCase) LoadLatest(ctx context.Context, userID string) (*domain.Draft, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, created, err := uc.load(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	latest, err := uc.entries.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			if created {
				if err := uc.persist(ctx, userID, st); err != nil {
					return nil, false, err
				}
			}
			return uc.view(st), false, nil
		}
		return nil, false, err
	}

	uc.loadEntryLocked(st, latest)
	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, false, err
	}
	return uc.view(st), true, nil
}

// Discard drops the user's draft entirely, used on sign-out.
func (uc *UseCase) Discard(ctx context.Context, userID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	delete(uc.open, userID)
	if err := uc.drafts.Delete(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (uc *UseCase) mutateList(ctx context.Context, userID string, op func(list *domain.WorkList)) (*domain.Draft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, _, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	op(st.list)
	if err := uc.persist(ctx, userID, st); err != nil {
		return nil, err
	}
	return uc.view(st), nil
}

// load resolves the live form state, restoring it from the draft store or
// seeding a fresh one. The second return reports a freshly seeded draft.
func (uc *UseCase) load(ctx context.Context, userID string) (*formState, bool, error) {
	if userID == "" {
		return nil, false, domain.ErrUnauthorized
	}
	if st, ok := uc.open[userID]; ok {
		return st, false, nil
	}

	st := &formState{list: domain.NewWorkList()}
	created := false

	stored, err := uc.drafts.Get(ctx, userID)
	switch {
	case err == nil:
		st.draft = stored
		st.list.Load(append(append([]domain.WorkItem(nil), stored.Active...), stored.Completed...))
	case errors.Is(err, domain.ErrDraftNotFound):
		st.draft = &domain.Draft{
			Date:             timeutil.Today(uc.now()),
			ConsecutiveDay:   uc.defaults.ConsecutiveDay,
			AccumulatedCount: uc.defaults.AccumulatedCount,
		}
		created = true
	default:
		return nil, false, err
	}

	uc.ensureBlankRow(st)
	uc.open[userID] = st
	return st, created, nil
}

func (uc *UseCase) loadEntryLocked(st *formState, stored *domain.DiaryEntry) {
	st.draft.LoadEntry(stored)
	st.list.Load(stored.Work)
	uc.ensureBlankRow(st)
}

// ensureBlankRow keeps one empty active row on screen so the form always has
// somewhere to type.
func (uc *UseCase) ensureBlankRow(st *formState) {
	if st.list.ActiveCount() == 0 {
		st.list.Add(nil)
	}
}

func (uc *UseCase) persist(ctx context.Context, userID string, st *formState) error {
	st.draft.Active, st.draft.Completed = st.list.Snapshot()
	st.draft.UpdatedAt = uc.now().UTC()
	if err := uc.drafts.Put(ctx, userID, st.draft); err != nil {
		uc.logger.Error("draft persist failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (uc *UseCase) view(st *formState) *domain.Draft {
	copied := *st.draft
	copied.Active = append([]domain.WorkItem(nil), st.draft.Active...)
	copied.Completed = append([]domain.WorkItem(nil), st.draft.Completed...)
	return &copied
}

func bumpCounter(v int) int {
	v++
	if v < 1 {
		v = 1
	}
	return v
}
