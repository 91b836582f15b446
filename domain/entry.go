package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/lifemap/diary/pkg/timeutil"
)

// legacyWorkTitle labels the synthetic item created when an entry saved by an
// old client carried the work log as one free-text string.
const legacyWorkTitle = "Previous Work Log (converted)"

// DiaryEntry is the full structured record for one calendar date. Date doubles
// as the storage key: saving is an upsert and prior content at the same date is
// replaced entirely. The JSON field names are the wire schema and must stay
// stable across clients.
type DiaryEntry struct {
	Date              string     `json:"date"`
	FullDateString    string     `json:"fullDateString"`
	ConsecutiveDay    int        `json:"consecutiveDay"`
	AccumulatedCount  int        `json:"accumulatedCount"`
	Reflection        string     `json:"reflection"`
	LifeMap           string     `json:"lifeMap"`
	Work              []WorkItem `json:"work"`
	WeekGoals         string     `json:"weekGoals"`
	GamificationNotes string     `json:"gamificationNotes"`
	LongTermPlan      string     `json:"longTermPlan"`
	ShortTermPlan     string     `json:"shortTermPlan"`
	EnglishPractice   string     `json:"englishPractice"`
	JapanesePractice  string     `json:"japanesePractice"`
	CustomNotesTitle  string     `json:"customNotesTitle"`
	CustomNotes       string     `json:"customNotes"`
	Timestamp         time.Time  `json:"timestamp"`
}

// diaryEntryJSON mirrors DiaryEntry with the fields that need tolerant
// decoding left raw.
type diaryEntryJSON struct {
	Date              string          `json:"date"`
	FullDateString    string          `json:"fullDateString"`
	ConsecutiveDay    json.RawMessage `json:"consecutiveDay"`
	AccumulatedCount  json.RawMessage `json:"accumulatedCount"`
	Reflection        string          `json:"reflection"`
	LifeMap           string          `json:"lifeMap"`
	Work              json.RawMessage `json:"work"`
	WeekGoals         string          `json:"weekGoals"`
	GamificationNotes string          `json:"gamificationNotes"`
	LongTermPlan      string          `json:"longTermPlan"`
	ShortTermPlan     string          `json:"shortTermPlan"`
	EnglishPractice   string          `json:"englishPractice"`
	JapanesePractice  string          `json:"japanesePractice"`
	CustomNotesTitle  string          `json:"customNotesTitle"`
	CustomNotes       string          `json:"customNotes"`
	Timestamp         time.Time       `json:"timestamp"`
}

// UnmarshalJSON decodes an entry while staying backward compatible with two
// legacy shapes: counters stored as strings, and the work log stored as a
// single free-text string instead of a list. A non-empty string work value
// becomes exactly one synthetic item whose detail is that string.
func (e *DiaryEntry) UnmarshalJSON(data []byte) error {
	var raw diaryEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Date = raw.Date
	e.FullDateString = raw.FullDateString
	e.Reflection = raw.Reflection
	e.LifeMap = raw.LifeMap
	e.WeekGoals = raw.WeekGoals
	e.GamificationNotes = raw.GamificationNotes
	e.LongTermPlan = raw.LongTermPlan
	e.ShortTermPlan = raw.ShortTermPlan
	e.EnglishPractice = raw.EnglishPractice
	e.JapanesePractice = raw.JapanesePractice
	e.CustomNotesTitle = raw.CustomNotesTitle
	e.CustomNotes = raw.CustomNotes
	e.Timestamp = raw.Timestamp
	e.ConsecutiveDay = decodeCounter(raw.ConsecutiveDay)
	e.AccumulatedCount = decodeCounter(raw.AccumulatedCount)

	work, err := DecodeWork(raw.Work)
	if err != nil {
		return err
	}
	e.Work = work
	return nil
}

// DecodeWork decodes the stored work field, which is either a list of items
// or, in entries saved by old clients, one free-text string. A non-empty
// string becomes exactly one synthetic item whose detail is that string.
func DecodeWork(raw []byte) ([]WorkItem, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var items []WorkItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, ErrInvalidPayload
	}
	if legacy == "" {
		return nil, nil
	}
	converted := time.Now().UTC()
	return []WorkItem{{
		Title:      legacyWorkTitle,
		Detail:     legacy,
		CreatedAt:  converted,
		ModifiedAt: converted,
	}}, nil
}

func decodeCounter(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return 0
}

// Normalize trims surrounding whitespace from every scalar text field, the
// way the form does before saving. Work items are trimmed by CollectAll.
func (e *DiaryEntry) Normalize() {
	e.Date = strings.TrimSpace(e.Date)
	e.Reflection = strings.TrimSpace(e.Reflection)
	e.LifeMap = strings.TrimSpace(e.LifeMap)
	e.WeekGoals = strings.TrimSpace(e.WeekGoals)
	e.GamificationNotes = strings.TrimSpace(e.GamificationNotes)
	e.LongTermPlan = strings.TrimSpace(e.LongTermPlan)
	e.ShortTermPlan = strings.TrimSpace(e.ShortTermPlan)
	e.EnglishPractice = strings.TrimSpace(e.EnglishPractice)
	e.JapanesePractice = strings.TrimSpace(e.JapanesePractice)
	e.CustomNotesTitle = strings.TrimSpace(e.CustomNotesTitle)
	e.CustomNotes = strings.TrimSpace(e.CustomNotes)
}

// ValidateDate rejects an empty or malformed date key. An empty key would
// collide every save under one storage document, so saving requires a real
// calendar date.
func (e *DiaryEntry) ValidateDate() error {
	if e.Date == "" {
		return ErrInvalidDate
	}
	if _, err := timeutil.ParseDate(e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Stamp finalizes an entry for saving: derives the display date string from
// the date key and records the save instant used as the history sort key.
func (e *DiaryEntry) Stamp(now time.Time) {
	e.FullDateString = timeutil.FullDateString(e.Date)
	e.Timestamp = now.UTC()
}
