package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, location *models.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, location *models.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) UpdateThresholds(ctx context.Context, id uuid.UUID, critical, low int) error {
	args := m.Called(ctx, id, critical, low)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) List(ctx context.Context, limit, offset int) ([]*models.Location, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Location), args.Error(1)
}

type ThresholdServiceTestSuite struct {
	suite.Suite
	locationRepo *MockLocationRepository
	service      ThresholdService
	locationID   uuid.UUID
	context      context.Context
}

func (suite *ThresholdServiceTestSuite) SetupTest() {
	suite.locationRepo = new(MockLocationRepository)
	suite.service = NewThresholdService(suite.locationRepo)
	suite.locationID = uuid.New()
	suite.context = context.Background()
}

func TestThresholdServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ThresholdServiceTestSuite))
}

func (suite *ThresholdServiceTestSuite) TestUpdateThresholds_Success() {
	suite.locationRepo.On("UpdateThresholds", suite.context, suite.locationID, 20, 50).Return(nil)

	err := suite.service.UpdateThresholds(suite.context, suite.locationID, 20, 50)
	assert.NoError(suite.T(), err)
	suite.locationRepo.AssertExpectations(suite.T())
}

func (suite *ThresholdServiceTestSuite) TestUpdateThresholds_RejectsInvertedPair() {
	err := suite.service.UpdateThresholds(suite.context, suite.locationID, 50, 20)
	assert.ErrorIs(suite.T(), err, domain.ErrInvalidThreshold)
	suite.locationRepo.AssertNotCalled(suite.T(), "UpdateThresholds", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ThresholdServiceTestSuite) TestUpdateThresholds_RejectsEqualPair() {
	err := suite.service.UpdateThresholds(suite.context, suite.locationID, 30, 30)
	assert.ErrorIs(suite.T(), err, domain.ErrInvalidThreshold)
}

func (suite *ThresholdServiceTestSuite) TestUpdateThresholds_RejectsNonPositive() {
	err := suite.service.UpdateThresholds(suite.context, suite.locationID, 0, 50)
	assert.ErrorIs(suite.T(), err, domain.ErrInvalidThreshold)

	err = suite.service.UpdateThresholds(suite.context, suite.locationID, -5, 50)
	assert.ErrorIs(suite.T(), err, domain.ErrInvalidThreshold)
}
