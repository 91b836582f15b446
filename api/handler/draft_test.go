package handler

import (
	"testing"
	"time"

	"github.com/lifemap/diary/domain"
)

func TestDraftViewDeriveDisplayFields(t *testing.T) {
	created := time.Now().Add(-48 * time.Hour)
	draft := &domain.Draft{
		Date: "2024-03-11",
		Active: []domain.WorkItem{
			{ID: "h1", Title: "write tests", CreatedAt: created, ModifiedAt: created},
		},
		Completed: []domain.WorkItem{
			{ID: "h2", Title: "shipped", IsCompleted: true, CreatedAt: created, ModifiedAt: created},
		},
	}

	view := draftView(draft, true)

	if view.FullDateString != "2024/03/11, Monday" {
		t.Fatalf("FullDateString = %q", view.FullDateString)
	}
	if view.WeekNumber != 11 {
		t.Fatalf("WeekNumber = %d, want 11", view.WeekNumber)
	}
	if !view.LoadedExisting {
		t.Fatal("LoadedExisting flag dropped")
	}

	for _, handle := range []string{"h1", "h2"} {
		meta, ok := view.ItemMeta[handle]
		if !ok {
			t.Fatalf("no metadata for item %q", handle)
		}
		if meta.CreatedDays != 2 || meta.ModifiedDays != 2 {
			t.Fatalf("%s day counts = %d/%d, want 2/2", handle, meta.CreatedDays, meta.ModifiedDays)
		}
		if meta.CreatedDate == "" || meta.CreatedLong == "" {
			t.Fatalf("%s display strings empty: %+v", handle, meta)
		}
	}
}

func TestDraftViewSkipsHandleLessItems(t *testing.T) {
	draft := &domain.Draft{
		Date:   "2024-03-11",
		Active: []domain.WorkItem{{Title: "no handle yet"}},
	}

	view := draftView(draft, false)
	if len(view.ItemMeta) != 0 {
		t.Fatalf("metadata keyed by empty handle: %+v", view.ItemMeta)
	}
}

func TestDraftViewMalformedDate(t *testing.T) {
	view := draftView(&domain.Draft{Date: "soon"}, false)
	if view.FullDateString != "" || view.WeekNumber != 0 {
		t.Fatalf("malformed date derived %q / %d", view.FullDateString, view.WeekNumber)
	}
}
