package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkList owns the two ordered partitions of a day's work items. Every item
// lives in exactly one of {active, completed}, and its IsCompleted flag always
// matches the partition holding it. The list is pure in-memory structure:
// operations on an unknown id are no-ops and nothing here returns an error.
//
// The list is not safe for concurrent use; callers serialize access.
type WorkList struct {
	active    []*WorkItem
	completed []*WorkItem

	now func() time.Time
}

// NewWorkList returns an empty list.
func NewWorkList() *WorkList {
	return &WorkList{now: time.Now}
}

// Add appends a new item to the active partition and returns its handle.
// Missing timestamps default to the current instant.
func (l *WorkList) Add(initial *WorkItem) string {
	item := &WorkItem{ID: uuid.NewString()}
	if initial != nil {
		item.Title = initial.Title
		item.Detail = initial.Detail
		item.CreatedAt = initial.CreatedAt
		item.ModifiedAt = initial.ModifiedAt
	}
	nowTS := l.now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = nowTS
	}
	if item.ModifiedAt.IsZero() {
		item.ModifiedAt = nowTS
	}
	l.active = append(l.active, item)
	return item.ID
}

// Remove deletes the item from whichever partition holds it.
func (l *WorkList) Remove(id string) {
	if idx := indexOf(l.active, id); idx >= 0 {
		l.active = append(l.active[:idx], l.active[idx+1:]...)
		return
	}
	if idx := indexOf(l.completed, id); idx >= 0 {
		l.completed = append(l.completed[:idx], l.completed[idx+1:]...)
	}
}

// Edit updates the given text fields. Touching either field bumps ModifiedAt
// to the current instant; CreatedAt is never changed here.
func (l *WorkList) Edit(id string, title, detail *string) {
	item := l.find(id)
	if item == nil || (title == nil && detail == nil) {
		return
	}
	if title != nil {
		item.Title = *title
	}
	if detail != nil {
		item.Detail = *detail
	}
	item.ModifiedAt = l.now().UTC()
}

// SetTimestamps overwrites both timestamps directly, bypassing the auto-bump
// rule in Edit. Used by the timestamp-adjustment action.
func (l *WorkList) SetTimestamps(id string, createdAt, modifiedAt time.Time) {
	item := l.find(id)
	if item == nil {
		return
	}
	item.CreatedAt = createdAt.UTC()
	item.ModifiedAt = modifiedAt.UTC()
}

// ToggleCompleted moves the item to the other partition. The move is a
// destroy-and-recreate: the old item is removed and a fresh copy with the
// flipped flag (same title, detail and timestamps) is appended to the
// destination, so the newest-completed item always sits last. Presentation of
// completed items differs materially from active ones, which is why the item
// is rebuilt rather than flipped in place. Returns the new handle, or "" when
// the id is unknown.
func (l *WorkList) ToggleCompleted(id string) string {
	item := l.find(id)
	if item == nil {
		return ""
	}
	replacement := &WorkItem{
		ID:          uuid.NewString(),
		Title:       item.Title,
		Detail:      item.Detail,
		IsCompleted: !item.IsCompleted,
		CreatedAt:   item.CreatedAt,
		ModifiedAt:  item.ModifiedAt,
	}
	l.Remove(id)
	if replacement.IsCompleted {
		l.completed = append(l.completed, replacement)
	} else {
		l.active = append(l.active, replacement)
	}
	return replacement.ID
}

// MoveToTop repositions an active item to the front of the active partition.
func (l *WorkList) MoveToTop(id string) {
	idx := indexOf(l.active, id)
	if idx <= 0 {
		return
	}
	item := l.active[idx]
	l.active = append(l.active[:idx], l.active[idx+1:]...)
	l.active = append([]*WorkItem{item}, l.active...)
}

// MoveToBottom repositions an active item to the end of the active partition.
func (l *WorkList) MoveToBottom(id string) {
	idx := indexOf(l.active, id)
	if idx < 0 || idx == len(l.active)-1 {
		return
	}
	item := l.active[idx]
	l.active = append(l.active[:idx], l.active[idx+1:]...)
	l.active = append(l.active, item)
}

// MoveUp swaps an active item with its predecessor. Already-first is a no-op.
func (l *WorkList) MoveUp(id string) {
	idx := indexOf(l.active, id)
	if idx <= 0 {
		return
	}
	l.active[idx-1], l.active[idx] = l.active[idx], l.active[idx-1]
}

// MoveDown swaps an active item with its successor. Already-last is a no-op.
func (l *WorkList) MoveDown(id string) {
	idx := indexOf(l.active, id)
	if idx < 0 || idx == len(l.active)-1 {
		return
	}
	l.active[idx], l.active[idx+1] = l.active[idx+1], l.active[idx]
}

// CollectAll returns the persisted shape of the list: active items in display
// order followed by completed items in completion order. Text fields are
// trimmed and items left fully blank are dropped. Handles are cleared since
// they are meaningless outside the live list.
func (l *WorkList) CollectAll() []WorkItem {
	out := make([]WorkItem, 0, len(l.active)+len(l.completed))
	for _, part := range [][]*WorkItem{l.active, l.completed} {
		for _, item := range part {
			if item.IsBlank() {
				continue
			}
			collected := *item
			collected.ID = ""
			collected.Title = strings.TrimSpace(collected.Title)
			collected.Detail = strings.TrimSpace(collected.Detail)
			out = append(out, collected)
		}
	}
	return out
}

// Load replaces the list state from a stored snapshot, partitioning items by
// their completion flag and assigning fresh handles. Missing timestamps
// default to the current instant, matching Add.
func (l *WorkList) Load(items []WorkItem) {
	l.active = nil
	l.completed = nil
	nowTS := l.now().UTC()
	for _, stored := range items {
		item := &WorkItem{
			ID:          uuid.NewString(),
			Title:       stored.Title,
			Detail:      stored.Detail,
			IsCompleted: stored.IsCompleted,
			CreatedAt:   stored.CreatedAt,
			ModifiedAt:  stored.ModifiedAt,
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = nowTS
		}
		if item.ModifiedAt.IsZero() {
			item.ModifiedAt = nowTS
		}
		if item.IsCompleted {
			l.completed = append(l.completed, item)
		} else {
			l.active = append(l.active, item)
		}
	}
}

// Snapshot returns copies of both partitions in display order, handles
// included, for rendering the live list.
func (l *WorkList) Snapshot() (active, completed []WorkItem) {
	active = make([]WorkItem, len(l.active))
	for i, item := range l.active {
		active[i] = *item
	}
	completed = make([]WorkItem, len(l.completed))
	for i, item := range l.completed {
		completed[i] = *item
	}
	return active, completed
}

// ActiveCount returns the number of active items.
func (l *WorkList) ActiveCount() int { return len(l.active) }

// CompletedCount returns the number of completed items, shown in the
// collapsed summary header.
func (l *WorkList) CompletedCount() int { return len(l.completed) }

func (l *WorkList) find(id string) *WorkItem {
	if idx := indexOf(l.active, id); idx >= 0 {
		return l.active[idx]
	}
	if idx := indexOf(l.completed, id); idx >= 0 {
		return l.completed[idx]
	}
	return nil
}

func indexOf(items []*WorkItem, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
