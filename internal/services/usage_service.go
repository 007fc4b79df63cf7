package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// UsageService records consumption in whole bags. Each log entry also
// issues the kg equivalent from stock, so the usage history and the batch
// pool stay in step.
type UsageService interface {
	LogUsage(ctx context.Context, locationID, itemID uuid.UUID, bags int, actor string) (*models.UsageLogEntry, error)
	UndoUsage(ctx context.Context, entryID uuid.UUID, actor string) error
	ListSince(ctx context.Context, locationID, itemID uuid.UUID, since time.Time) ([]*models.UsageLogEntry, error)
}

type usageService struct {
	usageRepo    repositories.UsageLogRepository
	itemRepo     repositories.ItemRepository
	stockService StockService
	log          *logger.Logger
}

func NewUsageService(usageRepo repositories.UsageLogRepository, itemRepo repositories.ItemRepository,
	stockService StockService, log *logger.Logger) UsageService {
	return &usageService{
		usageRepo:    usageRepo,
		itemRepo:     itemRepo,
		stockService: stockService,
		log:          log,
	}
}

func (s *usageService) LogUsage(ctx context.Context, locationID, itemID uuid.UUID, bags int, actor string) (*models.UsageLogEntry, error) {
	if bags <= 0 {
		return nil, fmt.Errorf("%w: bag count must be positive", domain.ErrInvalidInput)
	}
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	kg := stock.ToBaseUnit(float64(bags), models.UnitBag, item)

	if _, err := s.stockService.Issue(ctx, &DepleteRequest{
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   float64(bags),
		Unit:       models.UnitBag,
		Actor:      actor,
	}); err != nil {
		return nil, err
	}

	entry := &models.UsageLogEntry{
		ID:           uuid.New(),
		LocationID:   locationID,
		ItemID:       itemID,
		LoggedAt:     time.Now().UTC(),
		BagCount:     bags,
		KgEquivalent: kg,
		Actor:        actor,
	}
	if err := s.usageRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("location_id", locationID.String()).
		Int("bags", bags).
		Msg("usage logged")
	return entry, nil
}

// UndoUsage tombstones the entry and returns the consumed kg to stock via a
// positive adjustment, so trend math and on-hand both forget the mistake.
func (s *usageService) UndoUsage(ctx context.Context, entryID uuid.UUID, actor string) error {
	entry, err := s.usageRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.usageRepo.Undo(ctx, entryID); err != nil {
		return err
	}

	if _, err := s.stockService.Adjust(ctx, &DepleteRequest{
		ItemID:     entry.ItemID,
		LocationID: entry.LocationID,
		Quantity:   entry.KgEquivalent,
		Unit:       models.UnitKilogram,
		Actor:      actor,
	}); err != nil {
		return err
	}

	s.log.Info().Str("entry_id", entryID.String()).Msg("usage entry undone")
	return nil
}

func (s *usageService) ListSince(ctx context.Context, locationID, itemID uuid.UUID, since time.Time) ([]*models.UsageLogEntry, error) {
	return s.usageRepo.ListSince(ctx, locationID, itemID, since)
}
