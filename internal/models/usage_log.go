package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageLogEntry is a raw usage record feeding trend aggregation. Undone
// entries are soft-deleted and excluded from every aggregation.
type UsageLogEntry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	LocationID   uuid.UUID `json:"location_id" db:"location_id"`
	ItemID       uuid.UUID `json:"item_id" db:"item_id"`
	LoggedAt     time.Time `json:"logged_at" db:"logged_at"`
	BagCount     int       `json:"bag_count" db:"bag_count"`
	KgEquivalent float64   `json:"kg_equivalent" db:"kg_equivalent"`
	IsUndone     bool      `json:"is_undone" db:"is_undone"`
	Actor        string    `json:"actor" db:"actor"`
}
