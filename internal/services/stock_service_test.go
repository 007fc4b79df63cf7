package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// Mock repositories and services
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListEligible(ctx context.Context, itemID, locationID uuid.UUID) ([]*models.Batch, error) {
	args := m.Called(ctx, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListByLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]*models.Batch, error) {
	args := m.Called(ctx, locationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) OnHand(ctx context.Context, itemID, locationID uuid.UUID) (float64, error) {
	args := m.Called(ctx, itemID, locationID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBatchRepository) ApplyDepletion(ctx context.Context, plan *stock.DepletionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Item), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListRecentByLocation(ctx context.Context, locationID uuid.UUID, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, locationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) LastActivityAt(ctx context.Context, locationID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetSnapshot(ctx context.Context, locationID uuid.UUID) (*stock.LocationSnapshot, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.LocationSnapshot), args.Error(1)
}

func (m *MockCacheService) SetSnapshot(ctx context.Context, snapshot *stock.LocationSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSnapshot(ctx context.Context, locationID uuid.UUID) error {
	args := m.Called(ctx, locationID)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboard(ctx context.Context) ([]*stock.LocationSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stock.LocationSnapshot), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, snapshots []*stock.LocationSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, snapshots, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteDashboard(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int) ([]stock.DailyUsage, error) {
	args := m.Called(ctx, locationID, itemID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.DailyUsage), args.Error(1)
}

func (m *MockCacheService) SetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int, series []stock.DailyUsage, ttl time.Duration) error {
	args := m.Called(ctx, locationID, itemID, days, series, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateLocation(ctx context.Context, locationID uuid.UUID) error {
	args := m.Called(ctx, locationID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

type StockServiceTestSuite struct {
	suite.Suite
	batchRepo  *MockBatchRepository
	itemRepo   *MockItemRepository
	txnRepo    *MockTransactionRepository
	cache      *MockCacheService
	service    StockService
	itemID     uuid.UUID
	locationID uuid.UUID
	item       *models.Item
	context    context.Context
}

func (suite *StockServiceTestSuite) SetupTest() {
	suite.batchRepo = new(MockBatchRepository)
	suite.itemRepo = new(MockItemRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewStockService(suite.batchRepo, suite.itemRepo, suite.txnRepo, suite.cache, testLogger())
	suite.itemID = uuid.New()
	suite.locationID = uuid.New()
	suite.item = &models.Item{
		ID:               suite.itemID,
		Name:             "Potatoes",
		Unit:             models.UnitKilogram,
		ConversionFactor: 10,
	}
	suite.context = context.Background()
}

func TestStockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}

func (suite *StockServiceTestSuite) eligibleBatches(remaining ...float64) []*models.Batch {
	batches := make([]*models.Batch, len(remaining))
	for i, qty := range remaining {
		batches[i] = &models.Batch{
			ID:           uuid.New(),
			ItemID:       suite.itemID,
			LocationID:   suite.locationID,
			ReceivedAt:   time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
			InitialQty:   qty,
			RemainingQty: qty,
			Status:       models.BatchStatusAvailable,
		}
	}
	return batches
}

func (suite *StockServiceTestSuite) TestReceive_ConvertsBagsToKg() {
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("Create", suite.context, mock.AnythingOfType("*models.Batch")).Return(nil)
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, suite.locationID).Return(nil)

	batch, err := suite.service.Receive(suite.context, &ReceiveRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   5,
		Unit:       models.UnitBag,
		Actor:      "warehouse-1",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50.0, batch.InitialQty)
	assert.Equal(suite.T(), 50.0, batch.RemainingQty)
	assert.Equal(suite.T(), models.BatchStatusAvailable, batch.Status)
	suite.txnRepo.AssertCalled(suite.T(), "Append", suite.context, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionTypeReceive && len(txn.BatchDeltas) == 1 && txn.BatchDeltas[0].DeltaKg == 50.0
	}))
}

func (suite *StockServiceTestSuite) TestReceive_RejectsNonPositiveQuantity() {
	_, err := suite.service.Receive(suite.context, &ReceiveRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   0,
		Unit:       models.UnitKilogram,
	})

	assert.ErrorIs(suite.T(), err, domain.ErrInvalidInput)
	suite.batchRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestIssue_DepletesOldestFirst() {
	batches := suite.eligibleBatches(10, 20)
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).Return(batches, nil)
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).Return(nil)
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, suite.locationID).Return(nil)

	txn, err := suite.service.Issue(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   15,
		Unit:       models.UnitKilogram,
		Actor:      "shop-1",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TransactionTypeIssue, txn.Type)
	assert.Len(suite.T(), txn.BatchDeltas, 2)
	assert.Equal(suite.T(), batches[0].ID, txn.BatchDeltas[0].BatchID)
	assert.Equal(suite.T(), 10.0, txn.BatchDeltas[0].DeltaKg)
	assert.Equal(suite.T(), 5.0, txn.BatchDeltas[1].DeltaKg)
}

func (suite *StockServiceTestSuite) TestIssue_InsufficientStock() {
	batches := suite.eligibleBatches(10, 20)
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).Return(batches, nil)

	_, err := suite.service.Issue(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   50,
		Unit:       models.UnitKilogram,
	})

	assert.ErrorIs(suite.T(), err, domain.ErrInsufficientStock)
	var insufficient *stock.InsufficientStockError
	assert.ErrorAs(suite.T(), err, &insufficient)
	assert.Equal(suite.T(), 20.0, insufficient.ShortfallKg)
	suite.batchRepo.AssertNotCalled(suite.T(), "ApplyDepletion", mock.Anything, mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestIssue_RetriesOnceOnConflict() {
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).
		Return(suite.eligibleBatches(30), nil)
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).
		Return(domain.ErrConflict).Once()
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).
		Return(nil).Once()
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, suite.locationID).Return(nil)

	txn, err := suite.service.Issue(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   10,
		Unit:       models.UnitKilogram,
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), txn)
	suite.batchRepo.AssertNumberOfCalls(suite.T(), "ListEligible", 2)
	suite.batchRepo.AssertNumberOfCalls(suite.T(), "ApplyDepletion", 2)
}

func (suite *StockServiceTestSuite) TestIssue_GivesUpAfterSecondConflict() {
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).
		Return(suite.eligibleBatches(30), nil)
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).
		Return(domain.ErrConflict)

	_, err := suite.service.Issue(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   10,
		Unit:       models.UnitKilogram,
	})

	assert.ErrorIs(suite.T(), err, domain.ErrConflict)
	suite.txnRepo.AssertNotCalled(suite.T(), "Append", mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestTransfer_WritesLedgerEntryPerLocation() {
	toLocation := uuid.New()
	batches := suite.eligibleBatches(40)
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).Return(batches, nil)
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).Return(nil)
	suite.batchRepo.On("GetByID", suite.context, batches[0].ID).Return(batches[0], nil)
	suite.batchRepo.On("Create", suite.context, mock.AnythingOfType("*models.Batch")).Return(nil)
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, err := suite.service.Transfer(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   25,
		Unit:       models.UnitKilogram,
		Actor:      "warehouse-1",
	}, toLocation)

	assert.NoError(suite.T(), err)
	suite.txnRepo.AssertNumberOfCalls(suite.T(), "Append", 2)
	// destination batch keeps the source batch's age
	suite.batchRepo.AssertCalled(suite.T(), "Create", suite.context, mock.MatchedBy(func(b *models.Batch) bool {
		return b.LocationID == toLocation && b.RemainingQty == 25.0 && b.ReceivedAt.Equal(batches[0].ReceivedAt)
	}))
}

func (suite *StockServiceTestSuite) TestTransfer_RejectsSameLocation() {
	_, err := suite.service.Transfer(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   5,
		Unit:       models.UnitKilogram,
	}, suite.locationID)

	assert.ErrorIs(suite.T(), err, domain.ErrInvalidInput)
}

func (suite *StockServiceTestSuite) TestAdjust_PositiveCreatesBatch() {
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("Create", suite.context, mock.AnythingOfType("*models.Batch")).Return(nil)
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, suite.locationID).Return(nil)

	txn, err := suite.service.Adjust(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   12,
		Unit:       models.UnitKilogram,
		Actor:      "stocktake",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TransactionTypeAdjustment, txn.Type)
}

func (suite *StockServiceTestSuite) TestAdjust_NegativeDepletesFIFO() {
	suite.itemRepo.On("GetByID", suite.context, suite.itemID).Return(suite.item, nil)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).
		Return(suite.eligibleBatches(30), nil)
	suite.batchRepo.On("ApplyDepletion", suite.context, mock.AnythingOfType("*stock.DepletionPlan")).Return(nil)
	suite.txnRepo.On("Append", suite.context, mock.AnythingOfType("*models.Transaction")).Return(nil)
	suite.cache.On("InvalidateLocation", suite.context, suite.locationID).Return(nil)

	txn, err := suite.service.Adjust(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   -8,
		Unit:       models.UnitKilogram,
		Actor:      "stocktake",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TransactionTypeAdjustment, txn.Type)
	assert.Equal(suite.T(), 8.0, txn.Quantity)
}

func (suite *StockServiceTestSuite) TestAdjust_RejectsZero() {
	_, err := suite.service.Adjust(suite.context, &DepleteRequest{
		ItemID:     suite.itemID,
		LocationID: suite.locationID,
		Quantity:   0,
		Unit:       models.UnitKilogram,
	})

	assert.ErrorIs(suite.T(), err, domain.ErrInvalidInput)
}

func (suite *StockServiceTestSuite) TestFIFOSuggestion_NoneAvailable() {
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).
		Return([]*models.Batch{}, nil)

	_, err := suite.service.FIFOSuggestion(suite.context, suite.itemID, suite.locationID)
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
}

func (suite *StockServiceTestSuite) TestFIFOSuggestion_ReturnsOldest() {
	batches := suite.eligibleBatches(10, 20)
	suite.batchRepo.On("ListEligible", suite.context, suite.itemID, suite.locationID).
		Return(batches, nil)

	suggestion, err := suite.service.FIFOSuggestion(suite.context, suite.itemID, suite.locationID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), batches[0].ID, suggestion.ID)
}
