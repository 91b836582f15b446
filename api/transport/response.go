package transport

import (
	"encoding/json"

	"github.com/lifemap/diary/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// LoginResponse pairs the session record with its signed bearer token.
type LoginResponse struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

// SavedEntry is the stored entry together with its rendered text block, the
// thing the client copies to the clipboard.
type SavedEntry struct {
	Entry *domain.DiaryEntry `json:"entry"`
	Text  string             `json:"text"`
}

// DraftView is the form state plus the display strings derived from its date.
// ItemMeta maps live item handles to the created/modified date strings and
// day counts shown next to each row.
type DraftView struct {
	Draft          *domain.Draft                  `json:"draft"`
	FullDateString string                         `json:"fullDateString"`
	WeekNumber     int                            `json:"weekNumber,omitempty"`
	ItemMeta       map[string]domain.WorkItemMeta `json:"itemMeta,omitempty"`
	LoadedExisting bool                           `json:"loadedExisting,omitempty"`
}

// ItemResult reports the handle produced by an item command alongside the
// refreshed form. Toggle returns a fresh handle; unknown-handle commands
// leave ItemID empty.
type ItemResult struct {
	ItemID string `json:"itemId,omitempty"`
	DraftView
}
