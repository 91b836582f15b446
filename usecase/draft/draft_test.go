package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifemap/diary/domain"
)

type fakeDraftRepo struct {
	drafts map[string]*domain.Draft
	puts   int
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*domain.Draft)}
}

func (f *fakeDraftRepo) Get(ctx context.Context, userID string) (*domain.Draft, error) {
	draft, ok := f.drafts[userID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeDraftRepo) Put(ctx context.Context, userID string, draft *domain.Draft) error {
	copied := *draft
	f.drafts[userID] = &copied
	f.puts++
	return nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, userID string) error {
	delete(f.drafts, userID)
	return nil
}

func (f *fakeDraftRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (f *fakeDraftRepo) Size() (int, error) {
	return len(f.drafts), nil
}

type fakeEntryService struct {
	saved   []domain.DiaryEntry
	entries map[string]*domain.DiaryEntry
	saveErr error
}

func newFakeEntryService() *fakeEntryService {
	return &fakeEntryService{entries: make(map[string]*domain.DiaryEntry)}
}

func (f *fakeEntryService) Save(ctx context.Context, userID string, entry *domain.DiaryEntry) (*domain.DiaryEntry, string, error) {
	if f.saveErr != nil {
		return nil, "", f.saveErr
	}
	copied := *entry
	f.saved = append(f.saved, copied)
	f.entries[copied.Date] = &copied
	return &copied, domain.Render(copied), nil
}

func (f *fakeEntryService) Get(ctx context.Context, userID, date string) (*domain.DiaryEntry, error) {
	entry, ok := f.entries[date]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryService) Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error) {
	if len(f.saved) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	copied := f.saved[len(f.saved)-1]
	return &copied, nil
}

func newTestUseCase(repo *fakeDraftRepo, svc *fakeEntryService) *UseCase {
	uc := New(repo, svc, Defaults{ConsecutiveDay: 1, AccumulatedCount: 1}, nil)
	uc.now = func() time.Time { return time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC) } // 12:00 UTC+8
	return uc
}

func TestGetSeedsFreshDraft(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := newTestUseCase(repo, newFakeEntryService())

	draft, err := uc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if draft.Date != "2024-03-11" {
		t.Fatalf("Date = %q, want today in the display zone", draft.Date)
	}
	if draft.ConsecutiveDay != 1 || draft.AccumulatedCount != 1 {
		t.Fatalf("counters = %d/%d, want 1/1", draft.ConsecutiveDay, draft.AccumulatedCount)
	}
	if len(draft.Active) != 1 || !draft.Active[0].IsBlank() {
		t.Fatalf("fresh draft should carry one blank row: %+v", draft.Active)
	}
	if repo.puts == 0 {
		t.Fatal("fresh draft not persisted")
	}
}

func TestItemCommandsFlow(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := newTestUseCase(repo, newFakeEntryService())
	ctx := context.Background()

	id, draft, err := uc.AddItem(ctx, "u1", &domain.WorkItem{Title: "write tests"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	// Seeded blank row plus the new item.
	if len(draft.Active) != 2 {
		t.Fatalf("active rows = %d, want 2", len(draft.Active))
	}

	detail := "table driven"
	if _, err := uc.EditItem(ctx, "u1", id, nil, &detail); err != nil {
		t.Fatalf("edit: %v", err)
	}

	newID, draft, err := uc.ToggleItem(ctx, "u1", id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if newID == "" || newID == id {
		t.Fatalf("toggle handle = %q", newID)
	}
	if len(draft.Completed) != 1 || draft.Completed[0].Detail != "table driven" {
		t.Fatalf("completed partition wrong: %+v", draft.Completed)
	}
	if len(draft.Active) != 1 {
		t.Fatalf("active rows after toggle = %d, want the blank row", len(draft.Active))
	}

	if _, err := uc.MoveItem(ctx, "u1", newID, "sideways"); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("invalid direction = %v, want ErrInvalidPayload", err)
	}
}

func TestSaveCollectsNonBlankItems(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	if _, _, err := uc.AddItem(ctx, "u1", &domain.WorkItem{Title: "real work"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	entry, text, err := uc.Save(ctx, "u1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(entry.Work) != 1 || entry.Work[0].Title != "real work" {
		t.Fatalf("saved work = %+v, blank row should be dropped", entry.Work)
	}
	if text == "" {
		t.Fatal("save returned no rendered text")
	}
}

func TestNextDaySavesBeforeAdvancing(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{
		Date:             "2024-03-11",
		ConsecutiveDay:   5,
		AccumulatedCount: 12,
		Reflection:       "carried forward",
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	draft, loaded, err := uc.NextDay(ctx, "u1")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}

	if len(svc.saved) != 1 || svc.saved[0].Date != "2024-03-11" {
		t.Fatalf("save before advance missing: %+v", svc.saved)
	}
	if draft.Date != "2024-03-12" {
		t.Fatalf("Date = %q, want 2024-03-12", draft.Date)
	}
	if draft.ConsecutiveDay != 6 || draft.AccumulatedCount != 13 {
		t.Fatalf("counters = %d/%d, want 6/13", draft.ConsecutiveDay, draft.AccumulatedCount)
	}
	if loaded {
		t.Fatal("no entry exists at the new date, loaded should be false")
	}
	if draft.Reflection != "carried forward" {
		t.Fatalf("form content dropped: %q", draft.Reflection)
	}
}

func TestNextDayAbortsWhenSaveFails(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{Date: "2024-03-11", ConsecutiveDay: 5, AccumulatedCount: 12}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	svc.saveErr = errors.New("store down")
	if _, _, err := uc.NextDay(ctx, "u1"); err == nil {
		t.Fatal("next day succeeded despite failed save")
	}

	draft, err := uc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if draft.Date != "2024-03-11" || draft.ConsecutiveDay != 5 || draft.AccumulatedCount != 12 {
		t.Fatalf("failed save still advanced the form: %+v", draft)
	}
}

func TestNextDayLoadsExistingEntry(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	svc.entries["2024-03-12"] = &domain.DiaryEntry{
		Date:             "2024-03-12",
		ConsecutiveDay:   9,
		AccumulatedCount: 40,
		Reflection:       "already written",
		Work:             []domain.WorkItem{{Title: "done", IsCompleted: true}},
	}

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{Date: "2024-03-11"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	draft, loaded, err := uc.NextDay(ctx, "u1")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if !loaded {
		t.Fatal("existing entry at the new date not loaded")
	}
	if draft.Reflection != "already written" {
		t.Fatalf("Reflection = %q", draft.Reflection)
	}
	if len(draft.Completed) != 1 || draft.Completed[0].Title != "done" {
		t.Fatalf("completed items not restored: %+v", draft.Completed)
	}
	if len(draft.Active) != 1 || !draft.Active[0].IsBlank() {
		t.Fatalf("blank row not reseeded: %+v", draft.Active)
	}
}

func TestNextDayCounterFloor(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{
		Date:             "2024-03-11",
		ConsecutiveDay:   -5,
		AccumulatedCount: 0,
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	draft, _, err := uc.NextDay(ctx, "u1")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if draft.ConsecutiveDay != 1 || draft.AccumulatedCount != 1 {
		t.Fatalf("counters = %d/%d, want floor of 1", draft.ConsecutiveDay, draft.AccumulatedCount)
	}
}

func TestNextDayWithEmptyDateResetsToToday(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{Date: ""}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	draft, _, err := uc.NextDay(ctx, "u1")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if draft.Date != "2024-03-11" {
		t.Fatalf("Date = %q, want today", draft.Date)
	}
	if len(svc.saved) != 0 {
		t.Fatal("empty-date recovery should not save")
	}
}

func TestLoadEntryOverwritesForm(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	svc.entries["2024-03-01"] = &domain.DiaryEntry{
		Date:       "2024-03-01",
		Reflection: "from the archive",
		Work:       []domain.WorkItem{{Title: "todo"}},
	}

	if _, _, err := uc.AddItem(ctx, "u1", &domain.WorkItem{Title: "unsaved"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	draft, err := uc.LoadEntry(ctx, "u1", "2024-03-01")
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if draft.Date != "2024-03-01" || draft.Reflection != "from the archive" {
		t.Fatalf("form not overwritten: %+v", draft)
	}
	for _, item := range draft.Active {
		if item.Title == "unsaved" {
			t.Fatal("stale item survived the load")
		}
	}

	if _, err := uc.LoadEntry(ctx, "u1", "1999-01-01"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("missing entry = %v, want ErrEntryNotFound", err)
	}
}

func TestLoadLatest(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := newFakeEntryService()
	uc := newTestUseCase(repo, svc)
	ctx := context.Background()

	draft, loaded, err := uc.LoadLatest(ctx, "u1")
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if loaded {
		t.Fatal("empty store reported a loaded entry")
	}
	if draft.Date != "2024-03-11" {
		t.Fatalf("fresh draft date = %q", draft.Date)
	}

	if _, err := uc.Replace(ctx, "u1", &domain.Draft{Date: "2024-03-11", Reflection: "saved once"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, _, err := uc.Save(ctx, "u1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	draft, loaded, err = uc.LoadLatest(ctx, "u1")
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if !loaded || draft.Reflection != "saved once" {
		t.Fatalf("latest entry not loaded: loaded=%v %+v", loaded, draft)
	}
}

func TestDiscardDropsDraft(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := newTestUseCase(repo, newFakeEntryService())
	ctx := context.Background()

	if _, err := uc.Get(ctx, "u1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := uc.Discard(ctx, "u1"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if size, _ := repo.Size(); size != 0 {
		t.Fatalf("draft store size = %d after discard", size)
	}
}

func TestDraftSurvivesReload(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := newTestUseCase(repo, newFakeEntryService())
	ctx := context.Background()

	if _, _, err := uc.AddItem(ctx, "u1", &domain.WorkItem{Title: "persisted"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A new use case over the same store models a process restart.
	restarted := newTestUseCase(repo, newFakeEntryService())
	draft, err := restarted.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get after restart: %v", err)
	}

	found := false
	for _, item := range draft.Active {
		if item.Title == "persisted" {
			found = true
		}
	}
	if !found {
		t.Fatalf("item lost across restart: %+v", draft.Active)
	}
}
