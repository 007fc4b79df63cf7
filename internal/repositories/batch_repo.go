package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	ListEligible(ctx context.Context, itemID, locationID uuid.UUID) ([]*models.Batch, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]*models.Batch, error)
	OnHand(ctx context.Context, itemID, locationID uuid.UUID) (float64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ApplyDepletion(ctx context.Context, plan *stock.DepletionPlan) error
}

type batchRepo struct {
	db DB
}

func NewBatchRepo(db DB) BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, batch *models.Batch) error {
	query := `
		INSERT INTO batches (id, item_id, location_id, received_at, initial_qty, remaining_qty, quality_score, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, batch.ID, batch.ItemID, batch.LocationID, batch.ReceivedAt,
		batch.InitialQty, batch.RemainingQty, batch.QualityScore, batch.Status)
	return err
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	batch := &models.Batch{}
	query := `
		SELECT id, item_id, location_id, received_at, initial_qty, remaining_qty, quality_score, status, created_at
		FROM batches
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&batch.ID, &batch.ItemID, &batch.LocationID,
		&batch.ReceivedAt, &batch.InitialQty, &batch.RemainingQty, &batch.QualityScore,
		&batch.Status, &batch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ListEligible returns the FIFO candidate pool: available batches with
// remaining stock, oldest first, ties broken by ID.
func (r *batchRepo) ListEligible(ctx context.Context, itemID, locationID uuid.UUID) ([]*models.Batch, error) {
	query := `
		SELECT id, item_id, location_id, received_at, initial_qty, remaining_qty, quality_score, status, created_at
		FROM batches
		WHERE item_id = $1 AND location_id = $2 AND status = 'available' AND remaining_qty > 0
		ORDER BY received_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, itemID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBatches(rows)
}

func (r *batchRepo) ListByLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]*models.Batch, error) {
	query := `
		SELECT id, item_id, location_id, received_at, initial_qty, remaining_qty, quality_score, status, created_at
		FROM batches
		WHERE location_id = $1
		ORDER BY received_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBatches(rows)
}

func (r *batchRepo) OnHand(ctx context.Context, itemID, locationID uuid.UUID) (float64, error) {
	var onHand float64
	query := `
		SELECT COALESCE(SUM(remaining_qty), 0)
		FROM batches
		WHERE item_id = $1 AND location_id = $2 AND status = 'available'
	`
	err := r.db.QueryRow(ctx, query, itemID, locationID).Scan(&onHand)
	return onHand, err
}

func (r *batchRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE batches SET status = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyDepletion commits a FIFO plan under per-batch row locks. Each batch's
// remaining quantity is rechecked against the plan; any shortfall means a
// concurrent caller moved the pool since the plan was computed, so nothing is
// applied and the caller gets a retryable conflict.
func (r *batchRepo) ApplyDepletion(ctx context.Context, plan *stock.DepletionPlan) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, entry := range plan.Entries {
		var remaining float64
		err := tx.QueryRow(ctx,
			`SELECT remaining_qty FROM batches WHERE id = $1 FOR UPDATE`,
			entry.BatchID).Scan(&remaining)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: batch %s no longer exists", domain.ErrConflict, entry.BatchID)
		}
		if err != nil {
			return err
		}
		if remaining < entry.DeltaKg {
			return fmt.Errorf("%w: batch %s has %.3f kg, plan needs %.3f kg",
				domain.ErrConflict, entry.BatchID, remaining, entry.DeltaKg)
		}

		_, err = tx.Exec(ctx, `
			UPDATE batches
			SET remaining_qty = remaining_qty - $1,
			    status = CASE WHEN remaining_qty - $1 <= 0 THEN 'depleted' ELSE status END
			WHERE id = $2
		`, entry.DeltaKg, entry.BatchID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanBatches(rows pgx.Rows) ([]*models.Batch, error) {
	var batches []*models.Batch
	for rows.Next() {
		batch := &models.Batch{}
		if err := rows.Scan(&batch.ID, &batch.ItemID, &batch.LocationID, &batch.ReceivedAt,
			&batch.InitialQty, &batch.RemainingQty, &batch.QualityScore, &batch.Status,
			&batch.CreatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}
