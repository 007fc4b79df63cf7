package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock alert types surfaced on the dashboard.
const (
	AlertTypeLowStock     = "low_stock"
	AlertTypeExpiringSoon = "expiring_soon"
	AlertTypeReorder      = "reorder"
)

// StockAlert is an outstanding condition against a location, produced by the
// periodic alert sweep and resolved when the condition clears.
type StockAlert struct {
	ID         uuid.UUID `json:"id" db:"id"`
	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	ItemID     uuid.UUID `json:"item_id" db:"item_id"`
	Type       string    `json:"type" db:"type"`
	Message    string    `json:"message" db:"message"`
	Resolved   bool      `json:"resolved" db:"resolved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
