package entry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/repository"
	"github.com/lifemap/diary/usecase"
)

type fakeEntryRepo struct {
	mu        sync.Mutex
	entries   map[string]*domain.DiaryEntry // date → entry, single user
	lastLimit int
	upserts   int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]*domain.DiaryEntry)}
}

func (f *fakeEntryRepo) GetByDate(ctx context.Context, userID, date string) (*domain.DiaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[date]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryRepo) Latest(ctx context.Context, userID string) (*domain.DiaryEntry, error) {
	all, err := f.Recent(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return &all[0], nil
}

func (f *fakeEntryRepo) Recent(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit

	out := make([]domain.DiaryEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEntryRepo) Upsert(ctx context.Context, userID string, entry *domain.DiaryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *entry
	f.entries[entry.Date] = &copied
	f.upserts++
	return nil
}

type fakeFeed struct {
	mu       sync.Mutex
	notified int
	subCh    chan struct{}
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subCh: make(chan struct{}, 4)}
}

func (f *fakeFeed) NotifyChanged(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified++
	return nil
}

func (f *fakeFeed) notifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notified
}

func (f *fakeFeed) Subscribe(ctx context.Context, userID string) (usecase.FeedSubscription, error) {
	return &fakeSub{ch: f.subCh}, nil
}

type fakeSub struct {
	ch chan struct{}
}

func (s *fakeSub) Changes() <-chan struct{} { return s.ch }
func (s *fakeSub) Close() error             { return nil }

func testEntry(date string) *domain.DiaryEntry {
	return &domain.DiaryEntry{Date: date, Reflection: "note for " + date}
}

func TestSaveUpsertsByDate(t *testing.T) {
	repo := newFakeEntryRepo()
	feed := newFakeFeed()
	uc := New(repo, feed, nil)
	uc.now = func() time.Time { return time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC) }

	first := testEntry("2024-03-11")
	if _, _, err := uc.Save(context.Background(), "u1", first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := testEntry("2024-03-11")
	second.Reflection = "rewritten"
	if _, _, err := uc.Save(context.Background(), "u1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	stored, err := uc.Get(context.Background(), "u1", "2024-03-11")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Reflection != "rewritten" {
		t.Fatalf("Reflection = %q, second save did not replace the first", stored.Reflection)
	}
	if repo.upserts != 2 {
		t.Fatalf("upserts = %d, want 2", repo.upserts)
	}
	if feed.notifyCount() != 2 {
		t.Fatalf("notifications = %d, want 2", feed.notifyCount())
	}
}

func TestSaveStampsAndRenders(t *testing.T) {
	repo := newFakeEntryRepo()
	uc := New(repo, newFakeFeed(), nil)
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	entry := testEntry("2024-03-11")
	saved, text, err := uc.Save(context.Background(), "u1", entry)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.FullDateString != "2024/03/11, Monday" {
		t.Fatalf("FullDateString = %q", saved.FullDateString)
	}
	if !saved.Timestamp.Equal(now) {
		t.Fatalf("Timestamp = %v, want %v", saved.Timestamp, now)
	}
	if !strings.HasPrefix(text, "Date: 2024/03/11, Monday, Consecutive Day: 0, Accumulated Count: 0") {
		t.Fatalf("rendered text wrong:\n%s", text)
	}
}

func TestSaveRejectsInvalidDate(t *testing.T) {
	repo := newFakeEntryRepo()
	feed := newFakeFeed()
	uc := New(repo, feed, nil)

	for _, date := range []string{"", "  ", "03/11/2024"} {
		entry := testEntry(date)
		if _, _, err := uc.Save(context.Background(), "u1", entry); !errors.Is(err, domain.ErrInvalidDate) {
			t.Fatalf("Save(%q) = %v, want ErrInvalidDate", date, err)
		}
	}
	if repo.upserts != 0 {
		t.Fatalf("invalid saves reached the repository: %d", repo.upserts)
	}
	if feed.notifyCount() != 0 {
		t.Fatal("invalid saves produced notifications")
	}
}

func TestSaveNilEntry(t *testing.T) {
	uc := New(newFakeEntryRepo(), newFakeFeed(), nil)
	if _, _, err := uc.Save(context.Background(), "u1", nil); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("Save(nil) = %v, want ErrInvalidPayload", err)
	}
}

func TestRecentClampsLimit(t *testing.T) {
	repo := newFakeEntryRepo()
	uc := New(repo, newFakeFeed(), nil)

	for _, limit := range []int{0, -3, repository.HistoryLimit + 40} {
		if _, err := uc.Recent(context.Background(), "u1", limit); err != nil {
			t.Fatalf("recent: %v", err)
		}
		if repo.lastLimit != repository.HistoryLimit {
			t.Fatalf("limit %d passed through as %d, want %d", limit, repo.lastLimit, repository.HistoryLimit)
		}
	}

	if _, err := uc.Recent(context.Background(), "u1", 3); err != nil {
		t.Fatalf("recent: %v", err)
	}
	if repo.lastLimit != 3 {
		t.Fatalf("valid limit clamped: %d", repo.lastLimit)
	}
}

func TestWatchDeliversSnapshots(t *testing.T) {
	repo := newFakeEntryRepo()
	feed := newFakeFeed()
	uc := New(repo, feed, nil)
	uc.now = func() time.Time { return time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC) }

	if _, _, err := uc.Save(context.Background(), "u1", testEntry("2024-03-10")); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watch, err := uc.Watch(ctx, "u1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer watch.Close()

	initial := waitSnapshot(t, watch)
	if len(initial) != 1 || initial[0].Date != "2024-03-10" {
		t.Fatalf("initial snapshot = %+v", initial)
	}

	if _, _, err := uc.Save(context.Background(), "u1", testEntry("2024-03-11")); err != nil {
		t.Fatalf("second save: %v", err)
	}
	feed.subCh <- struct{}{}

	next := waitSnapshot(t, watch)
	if len(next) != 2 {
		t.Fatalf("snapshot after change has %d entries, want 2", len(next))
	}

	cancel()
	select {
	case _, ok := <-watch.Snapshots():
		if ok {
			// A snapshot already in flight is fine; the channel must close after it.
			if _, ok := <-watch.Snapshots(); ok {
				t.Fatal("snapshot channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot channel did not close after cancel")
	}
}

func waitSnapshot(t *testing.T, watch *HistoryWatch) []domain.DiaryEntry {
	t.Helper()
	select {
	case snapshot, ok := <-watch.Snapshots():
		if !ok {
			t.Fatal("snapshot channel closed early")
		}
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
