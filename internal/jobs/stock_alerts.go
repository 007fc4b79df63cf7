package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

const locationSweepSize = 1000

// StockAlertService sweeps every location, classifies its on-hand stock and
// keeps the alert table in step: low or critical stock upserts an alert,
// recovery resolves it. The sweep is idempotent, so overlapping runs or a
// restart mid-sweep just re-derive the same rows.
type StockAlertService struct {
	locationRepo repositories.LocationRepository
	itemRepo     repositories.ItemRepository
	batchRepo    repositories.BatchRepository
	alertRepo    repositories.AlertRepository
	log          *logger.Logger

	primarySKU string
}

func NewStockAlertService(locationRepo repositories.LocationRepository, itemRepo repositories.ItemRepository,
	batchRepo repositories.BatchRepository, alertRepo repositories.AlertRepository,
	log *logger.Logger, primarySKU string) *StockAlertService {
	return &StockAlertService{
		locationRepo: locationRepo,
		itemRepo:     itemRepo,
		batchRepo:    batchRepo,
		alertRepo:    alertRepo,
		log:          log,
		primarySKU:   primarySKU,
	}
}

// Sweep classifies all locations and reconciles alerts. Per-location errors
// are logged and skipped so one bad row never stalls the whole sweep.
func (s *StockAlertService) Sweep(ctx context.Context) error {
	item, err := s.itemRepo.GetBySKU(ctx, s.primarySKU)
	if err != nil {
		return err
	}
	locations, err := s.locationRepo.List(ctx, locationSweepSize, 0)
	if err != nil {
		return err
	}

	flagged := 0
	for _, loc := range locations {
		if err := s.sweepLocation(ctx, loc, item); err != nil {
			s.log.Error().Err(err).Str("location_id", loc.ID.String()).Msg("alert sweep failed for location")
			continue
		}
		flagged++
	}

	s.log.Info().Int("locations", len(locations)).Int("swept", flagged).Msg("stock alert sweep completed")
	return nil
}

func (s *StockAlertService) sweepLocation(ctx context.Context, loc *models.Location, item *models.Item) error {
	onHand, err := s.batchRepo.OnHand(ctx, item.ID, loc.ID)
	if err != nil {
		return err
	}
	status := stock.Classify(onHand, item, loc.CriticalStockThreshold, loc.LowStockThreshold)
	bags := stock.WholeBags(onHand, item)

	switch status {
	case stock.StatusCritical:
		if err := s.upsert(ctx, loc, item, models.AlertTypeLowStock, bags); err != nil {
			return err
		}
		return s.upsert(ctx, loc, item, models.AlertTypeReorder, bags)
	case stock.StatusLow:
		if err := s.upsert(ctx, loc, item, models.AlertTypeLowStock, bags); err != nil {
			return err
		}
		return s.alertRepo.ResolveByType(ctx, loc.ID, item.ID, models.AlertTypeReorder)
	default:
		if err := s.alertRepo.ResolveByType(ctx, loc.ID, item.ID, models.AlertTypeLowStock); err != nil {
			return err
		}
		return s.alertRepo.ResolveByType(ctx, loc.ID, item.ID, models.AlertTypeReorder)
	}
}

func (s *StockAlertService) upsert(ctx context.Context, loc *models.Location, item *models.Item, alertType string, bags int) error {
	var message string
	switch alertType {
	case models.AlertTypeReorder:
		message = fmt.Sprintf("%s is below the critical threshold (%d bags on hand, critical at %d)",
			loc.Name, bags, loc.CriticalStockThreshold)
	default:
		message = fmt.Sprintf("%s is running low (%d bags on hand, low at %d)",
			loc.Name, bags, loc.LowStockThreshold)
	}

	return s.alertRepo.Upsert(ctx, &models.StockAlert{
		ID:         uuid.New(),
		LocationID: loc.ID,
		ItemID:     item.ID,
		Type:       alertType,
		Message:    message,
	})
}
