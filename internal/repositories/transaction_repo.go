package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

type TransactionRepository interface {
	Append(ctx context.Context, txn *models.Transaction) error
	ListRecentByLocation(ctx context.Context, locationID uuid.UUID, limit int) ([]*models.Transaction, error)
	LastActivityAt(ctx context.Context, locationID uuid.UUID) (*time.Time, error)
}

type transactionRepo struct {
	db DB
}

func NewTransactionRepo(db DB) TransactionRepository {
	return &transactionRepo{db: db}
}

// Append records an immutable ledger row. Batch deltas are stored as a
// jsonb column so a transaction and the per-batch quantities it moved
// stay in a single row.
func (r *transactionRepo) Append(ctx context.Context, txn *models.Transaction) error {
	deltas, err := json.Marshal(txn.BatchDeltas)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO transactions (id, type, item_id, location_id, quantity, unit, actor, notes, batch_deltas, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err = r.db.Exec(ctx, query, txn.ID, txn.Type, txn.ItemID, txn.LocationID,
		txn.Quantity, txn.Unit, txn.Actor, txn.Notes, deltas)
	return err
}

func (r *transactionRepo) ListRecentByLocation(ctx context.Context, locationID uuid.UUID, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, type, item_id, location_id, quantity, unit, actor, notes, batch_deltas, created_at
		FROM transactions
		WHERE location_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, locationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var deltas []byte
		if err := rows.Scan(&txn.ID, &txn.Type, &txn.ItemID, &txn.LocationID,
			&txn.Quantity, &txn.Unit, &txn.Actor, &txn.Notes, &deltas, &txn.CreatedAt); err != nil {
			return nil, err
		}
		if len(deltas) > 0 {
			if err := json.Unmarshal(deltas, &txn.BatchDeltas); err != nil {
				return nil, err
			}
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// LastActivityAt returns nil without error when the location has no
// transactions yet.
func (r *transactionRepo) LastActivityAt(ctx context.Context, locationID uuid.UUID) (*time.Time, error) {
	query := `
		SELECT created_at
		FROM transactions
		WHERE location_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var at time.Time
	err := r.db.QueryRow(ctx, query, locationID).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}
