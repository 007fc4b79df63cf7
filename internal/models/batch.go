package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses. Only available batches with remaining stock are FIFO
// candidates; a batch becomes depleted exactly when RemainingQty reaches 0.
const (
	BatchStatusAvailable  = "available"
	BatchStatusQuarantine = "quarantine"
	BatchStatusHold       = "hold"
	BatchStatusDepleted   = "depleted"
)

// Batch is a receipt of stock at a location. Quantities are kg. Batches are
// append-only history: created on receipt, mutated only by allocation and
// adjustment, never deleted. Invariant: 0 <= RemainingQty <= InitialQty.
type Batch struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ItemID       uuid.UUID `json:"item_id" db:"item_id"`
	LocationID   uuid.UUID `json:"location_id" db:"location_id"`
	ReceivedAt   time.Time `json:"received_at" db:"received_at"`
	InitialQty   float64   `json:"initial_qty" db:"initial_qty"`
	RemainingQty float64   `json:"remaining_qty" db:"remaining_qty"`
	QualityScore int       `json:"quality_score" db:"quality_score"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Eligible reports whether the batch is a FIFO candidate.
func (b *Batch) Eligible() bool {
	return b.Status == BatchStatusAvailable && b.RemainingQty > 0
}
