package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

type UsageLogRepository interface {
	Append(ctx context.Context, entry *models.UsageLogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UsageLogEntry, error)
	Undo(ctx context.Context, id uuid.UUID) error
	ListSince(ctx context.Context, locationID, itemID uuid.UUID, since time.Time) ([]*models.UsageLogEntry, error)
}

type usageLogRepo struct {
	db DB
}

func NewUsageLogRepo(db DB) UsageLogRepository {
	return &usageLogRepo{db: db}
}

func (r *usageLogRepo) Append(ctx context.Context, entry *models.UsageLogEntry) error {
	query := `
		INSERT INTO usage_logs (id, location_id, item_id, logged_at, bag_count, kg_equivalent, is_undone, actor)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.LocationID, entry.ItemID,
		entry.LoggedAt, entry.BagCount, entry.KgEquivalent, entry.Actor)
	return err
}

func (r *usageLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.UsageLogEntry, error) {
	entry := &models.UsageLogEntry{}
	query := `
		SELECT id, location_id, item_id, logged_at, bag_count, kg_equivalent, is_undone, actor
		FROM usage_logs
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&entry.ID, &entry.LocationID, &entry.ItemID,
		&entry.LoggedAt, &entry.BagCount, &entry.KgEquivalent, &entry.IsUndone, &entry.Actor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Undo flips the tombstone flag instead of deleting the row, so the log
// stays append only. Undoing an already undone entry is a no-op error.
func (r *usageLogRepo) Undo(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE usage_logs
		SET is_undone = true
		WHERE id = $1 AND is_undone = false
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

// ListSince includes undone rows. Trend math filters them out so callers
// that need the raw history still get it.
func (r *usageLogRepo) ListSince(ctx context.Context, locationID, itemID uuid.UUID, since time.Time) ([]*models.UsageLogEntry, error) {
	query := `
		SELECT id, location_id, item_id, logged_at, bag_count, kg_equivalent, is_undone, actor
		FROM usage_logs
		WHERE location_id = $1 AND item_id = $2 AND logged_at >= $3
		ORDER BY logged_at ASC
	`
	rows, err := r.db.Query(ctx, query, locationID, itemID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.UsageLogEntry
	for rows.Next() {
		entry := &models.UsageLogEntry{}
		if err := rows.Scan(&entry.ID, &entry.LocationID, &entry.ItemID, &entry.LoggedAt,
			&entry.BagCount, &entry.KgEquivalent, &entry.IsUndone, &entry.Actor); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
