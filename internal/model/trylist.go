package model

import "time"

// Try-list item types.
const (
	ItemTypeCareer = "career"
	ItemTypeHobby  = "hobby"
	ItemTypeCustom = "custom"
)

// TryListItem is a discrete micro-experiment a user can mark complete.
// XPValue is fixed at creation and never changes; the only mutable state
// is the completion flag and its timestamp, which always move together.
type TryListItem struct {
	ID          int64      `json:"id"`
	SessionID   string     `json:"session_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ItemType    string     `json:"item_type"`
	Duration    string     `json:"duration"`
	XPValue     int        `json:"xp_value"`
	SourceID    *int64     `json:"source_id"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
