package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Drafts     bool      `json:"drafts"`
	DraftCount int       `json:"draft_count"`
	LastCheck  time.Time `json:"last_check"`
}
