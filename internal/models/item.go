package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit symbols. Kilograms are the base unit every quantity is stored in;
// bags are the display unit related to kg by the item's conversion factor.
const (
	UnitKilogram = "kg"
	UnitBag      = "bag"
)

// Item is a tracked bulk commodity. ConversionFactor is the number of base
// units per display unit (e.g. 1 bag = 10 kg means ConversionFactor = 10).
type Item struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	SKU              string    `json:"sku" db:"sku"`
	Unit             string    `json:"unit" db:"unit"`
	ConversionFactor float64   `json:"conversion_factor" db:"conversion_factor"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
