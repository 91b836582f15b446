package transport

type AuthLoginRequest struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	TTL         int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ProfileUpdateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
}

// ItemAddRequest seeds a new work item row. Both fields may be empty: the
// form adds blank rows.
type ItemAddRequest struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ItemEditRequest carries partial text updates; a nil field is left as is.
type ItemEditRequest struct {
	Title  *string `json:"title"`
	Detail *string `json:"detail"`
}

type ItemTimestampsRequest struct {
	CreatedAt  string `json:"createdAt"`
	ModifiedAt string `json:"modifiedAt"`
}

type ItemMoveRequest struct {
	Direction string `json:"direction"`
}

type LoadEntryRequest struct {
	Date string `json:"date"`
}
