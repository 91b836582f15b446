package domain

import "time"

// Draft is the serialized in-progress form state for one user: the scalar
// section fields plus both work item partitions with their live handles, so a
// session picks up exactly where it left off. One draft per user.
type Draft struct {
	Date              string     `json:"date"`
	ConsecutiveDay    int        `json:"consecutiveDay"`
	AccumulatedCount  int        `json:"accumulatedCount"`
	Reflection        string     `json:"reflection"`
	LifeMap           string     `json:"lifeMap"`
	WeekGoals         string     `json:"weekGoals"`
	GamificationNotes string     `json:"gamificationNotes"`
	LongTermPlan      string     `json:"longTermPlan"`
	ShortTermPlan     string     `json:"shortTermPlan"`
	EnglishPractice   string     `json:"englishPractice"`
	JapanesePractice  string     `json:"japanesePractice"`
	CustomNotesTitle  string     `json:"customNotesTitle"`
	CustomNotes       string     `json:"customNotes"`
	Active            []WorkItem `json:"active"`
	Completed         []WorkItem `json:"completed"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Entry assembles a diary entry from the draft's scalar fields and the given
// collected work items. The caller stamps and validates the result.
func (d *Draft) Entry(work []WorkItem) DiaryEntry {
	return DiaryEntry{
		Date:              d.Date,
		ConsecutiveDay:    d.ConsecutiveDay,
		AccumulatedCount:  d.AccumulatedCount,
		Reflection:        d.Reflection,
		LifeMap:           d.LifeMap,
		Work:              work,
		WeekGoals:         d.WeekGoals,
		GamificationNotes: d.GamificationNotes,
		LongTermPlan:      d.LongTermPlan,
		ShortTermPlan:     d.ShortTermPlan,
		EnglishPractice:   d.EnglishPractice,
		JapanesePractice:  d.JapanesePractice,
		CustomNotesTitle:  d.CustomNotesTitle,
		CustomNotes:       d.CustomNotes,
	}
}

// LoadEntry overwrites the draft's scalar fields from a stored entry. Work
// item partitions are rebuilt separately by the list manager.
func (d *Draft) LoadEntry(entry *DiaryEntry) {
	d.Date = entry.Date
	d.ConsecutiveDay = entry.ConsecutiveDay
	d.AccumulatedCount = entry.AccumulatedCount
	d.Reflection = entry.Reflection
	d.LifeMap = entry.LifeMap
	d.WeekGoals = entry.WeekGoals
	d.GamificationNotes = entry.GamificationNotes
	d.LongTermPlan = entry.LongTermPlan
	d.ShortTermPlan = entry.ShortTermPlan
	d.EnglishPractice = entry.EnglishPractice
	d.JapanesePractice = entry.JapanesePractice
	d.CustomNotesTitle = entry.CustomNotesTitle
	d.CustomNotes = entry.CustomNotes
}
