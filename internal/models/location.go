package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LocationTypeWarehouse = "warehouse"
	LocationTypeShop      = "shop"
)

// Location is a warehouse or a retail shop holding stock. Thresholds are
// expressed in whole bags and must satisfy critical < low, enforced where
// thresholds are written (see services.ThresholdService).
type Location struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	Type                   string    `json:"type" db:"type"`
	CriticalStockThreshold int       `json:"critical_stock_threshold" db:"critical_stock_threshold"`
	LowStockThreshold      int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// LocationSearchFilter holds filter and sort criteria for the stock dashboard
type LocationSearchFilter struct {
	Query     string `json:"query,omitempty"`      // Substring match on location name
	Status    string `json:"status,omitempty"`     // Computed status filter: critical, low, healthy
	SortBy    string `json:"sort_by,omitempty"`    // Sort field: name, capacity, quantity, recent
	SortOrder string `json:"sort_order,omitempty"` // Sort order: asc, desc
}
