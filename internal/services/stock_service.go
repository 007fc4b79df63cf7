package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/caching"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// ReceiveRequest describes an incoming delivery. Quantity may be given in
// kg or bags; it is converted to kg before the batch is created.
type ReceiveRequest struct {
	ItemID       uuid.UUID
	LocationID   uuid.UUID
	Quantity     float64
	Unit         string
	QualityScore int
	ReceivedAt   time.Time
	Actor        string
	Notes        *string
}

// DepleteRequest describes an outgoing movement (issue, waste or the source
// side of a transfer).
type DepleteRequest struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Quantity   float64
	Unit       string
	Actor      string
	Notes      *string
}

type StockService interface {
	Receive(ctx context.Context, req *ReceiveRequest) (*models.Batch, error)
	Issue(ctx context.Context, req *DepleteRequest) (*models.Transaction, error)
	Waste(ctx context.Context, req *DepleteRequest) (*models.Transaction, error)
	Transfer(ctx context.Context, req *DepleteRequest, toLocationID uuid.UUID) (*models.Transaction, error)
	Adjust(ctx context.Context, req *DepleteRequest) (*models.Transaction, error)
	FIFOSuggestion(ctx context.Context, itemID, locationID uuid.UUID) (*models.Batch, error)
	OnHand(ctx context.Context, itemID, locationID uuid.UUID) (float64, error)
}

type stockService struct {
	batchRepo repositories.BatchRepository
	itemRepo  repositories.ItemRepository
	txnRepo   repositories.TransactionRepository
	cache     caching.CacheService
	log       *logger.Logger
}

func NewStockService(batchRepo repositories.BatchRepository, itemRepo repositories.ItemRepository,
	txnRepo repositories.TransactionRepository, cache caching.CacheService, log *logger.Logger) StockService {
	return &stockService{
		batchRepo: batchRepo,
		itemRepo:  itemRepo,
		txnRepo:   txnRepo,
		cache:     cache,
		log:       log,
	}
}

func (s *stockService) Receive(ctx context.Context, req *ReceiveRequest) (*models.Batch, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	kg := stock.ToBaseUnit(req.Quantity, req.Unit, item)
	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	batch := &models.Batch{
		ID:           uuid.New(),
		ItemID:       req.ItemID,
		LocationID:   req.LocationID,
		ReceivedAt:   receivedAt,
		InitialQty:   kg,
		RemainingQty: kg,
		QualityScore: req.QualityScore,
		Status:       models.BatchStatusAvailable,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		Type:        models.TransactionTypeReceive,
		ItemID:      req.ItemID,
		LocationID:  req.LocationID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Actor:       req.Actor,
		Notes:       req.Notes,
		BatchDeltas: []models.BatchDelta{{BatchID: batch.ID, DeltaKg: kg}},
	}
	if err := s.txnRepo.Append(ctx, txn); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.LocationID)
	s.log.Info().Str("batch_id", batch.ID.String()).Float64("kg", kg).Msg("stock received")
	return batch, nil
}

func (s *stockService) Issue(ctx context.Context, req *DepleteRequest) (*models.Transaction, error) {
	return s.deplete(ctx, req, models.TransactionTypeIssue)
}

func (s *stockService) Waste(ctx context.Context, req *DepleteRequest) (*models.Transaction, error) {
	return s.deplete(ctx, req, models.TransactionTypeWaste)
}

// Transfer depletes at the source and creates a fresh batch at the
// destination carrying the same received-at, so FIFO age survives the move.
// Two ledger entries are written, one per location.
func (s *stockService) Transfer(ctx context.Context, req *DepleteRequest, toLocationID uuid.UUID) (*models.Transaction, error) {
	if toLocationID == req.LocationID {
		return nil, fmt.Errorf("%w: source and destination locations are the same", domain.ErrInvalidInput)
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	kg := stock.ToBaseUnit(req.Quantity, req.Unit, item)

	plan, err := s.planAndApply(ctx, req.ItemID, req.LocationID, kg)
	if err != nil {
		return nil, err
	}

	sourceTxn := &models.Transaction{
		ID:          uuid.New(),
		Type:        models.TransactionTypeTransfer,
		ItemID:      req.ItemID,
		LocationID:  req.LocationID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Actor:       req.Actor,
		Notes:       req.Notes,
		BatchDeltas: plan.Entries,
	}
	if err := s.txnRepo.Append(ctx, sourceTxn); err != nil {
		return nil, err
	}

	// Oldest depleted batch donates its age to the destination batch.
	receivedAt := time.Now().UTC()
	if oldest, err := s.batchRepo.GetByID(ctx, plan.Entries[0].BatchID); err == nil {
		receivedAt = oldest.ReceivedAt
	}

	destBatch := &models.Batch{
		ID:           uuid.New(),
		ItemID:       req.ItemID,
		LocationID:   toLocationID,
		ReceivedAt:   receivedAt,
		InitialQty:   kg,
		RemainingQty: kg,
		Status:       models.BatchStatusAvailable,
	}
	if err := s.batchRepo.Create(ctx, destBatch); err != nil {
		return nil, err
	}

	destTxn := &models.Transaction{
		ID:          uuid.New(),
		Type:        models.TransactionTypeTransfer,
		ItemID:      req.ItemID,
		LocationID:  toLocationID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Actor:       req.Actor,
		Notes:       req.Notes,
		BatchDeltas: []models.BatchDelta{{BatchID: destBatch.ID, DeltaKg: kg}},
	}
	if err := s.txnRepo.Append(ctx, destTxn); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.LocationID)
	s.invalidate(ctx, toLocationID)
	s.log.Info().
		Str("from", req.LocationID.String()).
		Str("to", toLocationID.String()).
		Float64("kg", kg).
		Msg("stock transferred")
	return sourceTxn, nil
}

// Adjust corrects on-hand stock after a physical count. A positive quantity
// creates an adjustment batch; a negative quantity depletes FIFO like an
// issue would.
func (s *stockService) Adjust(ctx context.Context, req *DepleteRequest) (*models.Transaction, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: adjustment quantity must be non-zero", domain.ErrInvalidInput)
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		kg := stock.ToBaseUnit(req.Quantity, req.Unit, item)
		batch := &models.Batch{
			ID:           uuid.New(),
			ItemID:       req.ItemID,
			LocationID:   req.LocationID,
			ReceivedAt:   time.Now().UTC(),
			InitialQty:   kg,
			RemainingQty: kg,
			Status:       models.BatchStatusAvailable,
		}
		if err := s.batchRepo.Create(ctx, batch); err != nil {
			return nil, err
		}
		txn := &models.Transaction{
			ID:          uuid.New(),
			Type:        models.TransactionTypeAdjustment,
			ItemID:      req.ItemID,
			LocationID:  req.LocationID,
			Quantity:    req.Quantity,
			Unit:        req.Unit,
			Actor:       req.Actor,
			Notes:       req.Notes,
			BatchDeltas: []models.BatchDelta{{BatchID: batch.ID, DeltaKg: kg}},
		}
		if err := s.txnRepo.Append(ctx, txn); err != nil {
			return nil, err
		}
		s.invalidate(ctx, req.LocationID)
		return txn, nil
	}

	down := &DepleteRequest{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   -req.Quantity,
		Unit:       req.Unit,
		Actor:      req.Actor,
		Notes:      req.Notes,
	}
	return s.deplete(ctx, down, models.TransactionTypeAdjustment)
}

func (s *stockService) FIFOSuggestion(ctx context.Context, itemID, locationID uuid.UUID) (*models.Batch, error) {
	batches, err := s.batchRepo.ListEligible(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	suggestion := stock.FIFOSuggestion(batches)
	if suggestion == nil {
		return nil, domain.ErrNotFound
	}
	return suggestion, nil
}

func (s *stockService) OnHand(ctx context.Context, itemID, locationID uuid.UUID) (float64, error) {
	return s.batchRepo.OnHand(ctx, itemID, locationID)
}

func (s *stockService) deplete(ctx context.Context, req *DepleteRequest, txnType string) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	kg := stock.ToBaseUnit(req.Quantity, req.Unit, item)

	plan, err := s.planAndApply(ctx, req.ItemID, req.LocationID, kg)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		Type:        txnType,
		ItemID:      req.ItemID,
		LocationID:  req.LocationID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Actor:       req.Actor,
		Notes:       req.Notes,
		BatchDeltas: plan.Entries,
	}
	if err := s.txnRepo.Append(ctx, txn); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.LocationID)
	s.log.Info().
		Str("type", txnType).
		Str("location_id", req.LocationID.String()).
		Float64("kg", kg).
		Int("batches", plan.BatchesTouched).
		Msg("stock depleted")
	return txn, nil
}

// planAndApply computes a FIFO plan from a fresh batch snapshot and commits
// it. A conflict means another caller depleted the pool between snapshot and
// commit; one retry with a fresh snapshot resolves the common race.
func (s *stockService) planAndApply(ctx context.Context, itemID, locationID uuid.UUID, kg float64) (*stock.DepletionPlan, error) {
	var plan *stock.DepletionPlan
	for attempt := 0; attempt < 2; attempt++ {
		batches, err := s.batchRepo.ListEligible(ctx, itemID, locationID)
		if err != nil {
			return nil, err
		}
		plan, err = stock.PlanDepletion(batches, kg)
		if err != nil {
			return nil, err
		}
		err = s.batchRepo.ApplyDepletion(ctx, plan)
		if err == nil {
			return plan, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		if attempt == 0 {
			s.log.Warn().
				Str("location_id", locationID.String()).
				Msg("depletion conflicted with concurrent writer, retrying")
		}
	}
	return nil, fmt.Errorf("%w: depletion retry exhausted", domain.ErrConflict)
}

func (s *stockService) invalidate(ctx context.Context, locationID uuid.UUID) {
	if err := s.cache.InvalidateLocation(ctx, locationID); err != nil {
		s.log.Warn().Err(err).Str("location_id", locationID.String()).Msg("cache invalidation failed")
	}
}
