package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
)

type AlertRepository interface {
	Upsert(ctx context.Context, alert *models.StockAlert) error
	CountsByLocation(ctx context.Context, locationID uuid.UUID) (stock.AlertCounts, error)
	ListUnresolved(ctx context.Context, locationID uuid.UUID) ([]*models.StockAlert, error)
	Resolve(ctx context.Context, id uuid.UUID) error
	ResolveByType(ctx context.Context, locationID, itemID uuid.UUID, alertType string) error
}

type alertRepo struct {
	db DB
}

func NewAlertRepo(db DB) AlertRepository {
	return &alertRepo{db: db}
}

// Upsert keeps at most one unresolved alert per location, item and type,
// refreshing the message when the sweep re-detects the same condition.
func (r *alertRepo) Upsert(ctx context.Context, alert *models.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (id, location_id, item_id, type, message, resolved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW(), NOW())
		ON CONFLICT (location_id, item_id, type) WHERE resolved = false
		DO UPDATE SET message = EXCLUDED.message, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, alert.ID, alert.LocationID, alert.ItemID, alert.Type, alert.Message)
	return err
}

func (r *alertRepo) CountsByLocation(ctx context.Context, locationID uuid.UUID) (stock.AlertCounts, error) {
	var counts stock.AlertCounts
	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = 'low_stock'),
			COUNT(*) FILTER (WHERE type = 'expiring_soon'),
			COUNT(*) FILTER (WHERE type = 'reorder')
		FROM stock_alerts
		WHERE location_id = $1 AND resolved = false
	`
	err := r.db.QueryRow(ctx, query, locationID).Scan(&counts.LowStock, &counts.ExpiringSoon, &counts.Reorder)
	if err != nil {
		return stock.AlertCounts{}, err
	}
	return counts, nil
}

func (r *alertRepo) ListUnresolved(ctx context.Context, locationID uuid.UUID) ([]*models.StockAlert, error) {
	query := `
		SELECT id, location_id, item_id, type, message, resolved, created_at, updated_at
		FROM stock_alerts
		WHERE location_id = $1 AND resolved = false
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.StockAlert
	for rows.Next() {
		alert := &models.StockAlert{}
		if err := rows.Scan(&alert.ID, &alert.LocationID, &alert.ItemID, &alert.Type,
			&alert.Message, &alert.Resolved, &alert.CreatedAt, &alert.UpdatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (r *alertRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE stock_alerts
		SET resolved = true, updated_at = NOW()
		WHERE id = $1 AND resolved = false
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResolveByType clears alerts of one type for a location and item. The
// sweep calls this when a previously flagged location recovers, so no
// rows affected is not an error.
func (r *alertRepo) ResolveByType(ctx context.Context, locationID, itemID uuid.UUID, alertType string) error {
	query := `
		UPDATE stock_alerts
		SET resolved = true, updated_at = NOW()
		WHERE location_id = $1 AND item_id = $2 AND type = $3 AND resolved = false
	`
	_, err := r.db.Exec(ctx, query, locationID, itemID, alertType)
	return err
}
