package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/caching"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

const (
	snapshotTTL  = 60 * time.Second
	dashboardTTL = 30 * time.Second
	trendTTL     = 5 * time.Minute

	locationPageSize = 1000
)

// Service assembles the derived read models: per-location snapshots, the
// dashboard list and usage trend series. Snapshots are recomputed from
// batches and the ledger on every cache miss; Redis only shortcuts the
// recompute and a cache failure is never surfaced to the caller.
type Service struct {
	locationRepo repositories.LocationRepository
	itemRepo     repositories.ItemRepository
	batchRepo    repositories.BatchRepository
	txnRepo      repositories.TransactionRepository
	usageRepo    repositories.UsageLogRepository
	alertRepo    repositories.AlertRepository
	cache        caching.CacheService
	log          *logger.Logger

	primarySKU string
	recentSize int
}

func NewService(locationRepo repositories.LocationRepository, itemRepo repositories.ItemRepository,
	batchRepo repositories.BatchRepository, txnRepo repositories.TransactionRepository,
	usageRepo repositories.UsageLogRepository, alertRepo repositories.AlertRepository,
	cache caching.CacheService, log *logger.Logger, primarySKU string, recentSize int) *Service {
	return &Service{
		locationRepo: locationRepo,
		itemRepo:     itemRepo,
		batchRepo:    batchRepo,
		txnRepo:      txnRepo,
		usageRepo:    usageRepo,
		alertRepo:    alertRepo,
		cache:        cache,
		log:          log,
		primarySKU:   primarySKU,
		recentSize:   recentSize,
	}
}

// Dashboard returns a snapshot for every location, unfiltered.
func (s *Service) Dashboard(ctx context.Context) ([]*stock.LocationSnapshot, error) {
	if cached, err := s.cache.GetDashboard(ctx); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetBySKU(ctx, s.primarySKU)
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.List(ctx, locationPageSize, 0)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*stock.LocationSnapshot, 0, len(locations))
	for _, loc := range locations {
		snapshot, err := s.buildSnapshot(ctx, loc, item)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := s.cache.SetDashboard(ctx, snapshots, dashboardTTL); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache write failed")
	}
	return snapshots, nil
}

// Overview is the dashboard narrowed and ordered by the caller's filter.
func (s *Service) Overview(ctx context.Context, filter *models.LocationSearchFilter) ([]*stock.LocationSnapshot, error) {
	snapshots, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	snapshots = stock.FilterSnapshots(snapshots, filter)
	if filter != nil {
		snapshots = stock.SortSnapshots(snapshots, filter.SortBy, filter.SortOrder)
	}
	return snapshots, nil
}

// LocationSnapshot returns the derived view of a single location.
func (s *Service) LocationSnapshot(ctx context.Context, locationID uuid.UUID) (*stock.LocationSnapshot, error) {
	if cached, err := s.cache.GetSnapshot(ctx, locationID); err != nil {
		s.log.Warn().Err(err).Msg("snapshot cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetBySKU(ctx, s.primarySKU)
	if err != nil {
		return nil, err
	}
	loc, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.buildSnapshot(ctx, loc, item)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSnapshot(ctx, snapshot, snapshotTTL); err != nil {
		s.log.Warn().Err(err).Msg("snapshot cache write failed")
	}
	return snapshot, nil
}

// DailyTrend returns the zero-filled per-day usage series for the trailing
// window, bucketed by UTC calendar day.
func (s *Service) DailyTrend(ctx context.Context, locationID uuid.UUID, days int) ([]stock.DailyUsage, error) {
	item, err := s.itemRepo.GetBySKU(ctx, s.primarySKU)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.GetDailyTrend(ctx, locationID, item.ID, days); err != nil {
		s.log.Warn().Err(err).Msg("trend cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	logs, err := s.usageRepo.ListSince(ctx, locationID, item.ID, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	series := stock.DailyTrend(logs, days, now)

	if err := s.cache.SetDailyTrend(ctx, locationID, item.ID, days, series, trendTTL); err != nil {
		s.log.Warn().Err(err).Msg("trend cache write failed")
	}
	return series, nil
}

// HourlyPattern returns the 24 per-hour usage buckets for one UTC day.
func (s *Service) HourlyPattern(ctx context.Context, locationID uuid.UUID, day time.Time) ([]stock.HourlyUsage, error) {
	item, err := s.itemRepo.GetBySKU(ctx, s.primarySKU)
	if err != nil {
		return nil, err
	}
	logs, err := s.usageRepo.ListSince(ctx, locationID, item.ID, day.UTC().Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return stock.HourlyPattern(logs, day), nil
}

// TrendSummary aggregates the daily series into totals, the peak day and a
// direction with hysteresis.
func (s *Service) TrendSummary(ctx context.Context, locationID uuid.UUID, days int) (*stock.TrendSummary, error) {
	series, err := s.DailyTrend(ctx, locationID, days)
	if err != nil {
		return nil, err
	}
	summary := stock.Summarize(series)
	return &summary, nil
}

func (s *Service) buildSnapshot(ctx context.Context, loc *models.Location, item *models.Item) (*stock.LocationSnapshot, error) {
	onHand, err := s.batchRepo.OnHand(ctx, item.ID, loc.ID)
	if err != nil {
		return nil, err
	}
	lastActivity, err := s.txnRepo.LastActivityAt(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.txnRepo.ListRecentByLocation(ctx, loc.ID, s.recentSize)
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.CountsByLocation(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	return stock.BuildSnapshot(loc, item, onHand, lastActivity, recent, alerts), nil
}
