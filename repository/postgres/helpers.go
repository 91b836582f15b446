package postgres

import (
	"encoding/json"
	"time"

	"github.com/lifemap/diary/domain"
)

// marshalWork serializes the structured work log for the JSONB column. An
// empty log is stored as an empty list, never NULL.
func marshalWork(items []domain.WorkItem) []byte {
	if items == nil {
		items = []domain.WorkItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return payload
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
