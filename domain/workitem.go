package domain

import (
	"strings"
	"time"

	"github.com/lifemap/diary/pkg/timeutil"
)

// WorkItem is a single task line in a day's work log. The ID is an opaque
// in-memory handle used by list operations; it is kept out of the persisted
// entry, which carries only the five wire fields.
type WorkItem struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Detail      string    `json:"detail"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// IsBlank reports whether the item carries no text at all. Blank items stay
// on screen until removed but are excluded from the persisted entry.
func (w *WorkItem) IsBlank() bool {
	if w == nil {
		return true
	}
	return strings.TrimSpace(w.Title) == "" && strings.TrimSpace(w.Detail) == ""
}

// WorkItemMeta holds the derived display strings shown next to an item's
// timestamps.
type WorkItemMeta struct {
	CreatedDate  string `json:"created_date"`
	CreatedLong  string `json:"created_long"`
	CreatedDays  int    `json:"created_days"`
	ModifiedDate string `json:"modified_date"`
	ModifiedLong string `json:"modified_long"`
	ModifiedDays int    `json:"modified_days"`
}

// Meta computes the display metadata for the item relative to now.
func (w *WorkItem) Meta(now time.Time) WorkItemMeta {
	if w == nil {
		return WorkItemMeta{}
	}
	return WorkItemMeta{
		CreatedDate:  timeutil.FormatShortDate(w.CreatedAt),
		CreatedLong:  timeutil.FormatLongDate(w.CreatedAt),
		CreatedDays:  timeutil.DaysElapsed(w.CreatedAt, now),
		ModifiedDate: timeutil.FormatShortDate(w.ModifiedAt),
		ModifiedLong: timeutil.FormatLongDate(w.ModifiedAt),
		ModifiedDays: timeutil.DaysElapsed(w.ModifiedAt, now),
	}
}
