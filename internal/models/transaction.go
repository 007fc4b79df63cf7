package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. Every mutating stock operation appends exactly one
// ledger entry; transfers append one at the source and one at the destination.
const (
	TransactionTypeReceive    = "receive"
	TransactionTypeIssue      = "issue"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeWaste      = "waste"
	TransactionTypeAdjustment = "adjustment"
)

// Transaction is an append-only ledger entry. Quantity is recorded in the
// unit the caller worked in; BatchDeltas carry the per-batch kg movements so
// the sum of deltas always matches the location-level change.
type Transaction struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Type        string       `json:"type" db:"type"`
	ItemID      uuid.UUID    `json:"item_id" db:"item_id"`
	LocationID  uuid.UUID    `json:"location_id" db:"location_id"`
	Quantity    float64      `json:"quantity" db:"quantity"`
	Unit        string       `json:"unit" db:"unit"`
	Actor       string       `json:"actor" db:"actor"`
	Notes       *string      `json:"notes,omitempty" db:"notes"`
	BatchDeltas []BatchDelta `json:"batch_deltas,omitempty"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// BatchDelta records how much of a transaction was taken from (or added to)
// a single batch, in kg.
type BatchDelta struct {
	BatchID uuid.UUID `json:"batch_id" db:"batch_id"`
	DeltaKg float64   `json:"delta_kg" db:"delta_kg"`
}
