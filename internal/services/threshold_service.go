package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
)

// ThresholdService is the single write path for location thresholds. The
// classifier accepts any ordered pair, so validity is enforced here once
// instead of in every read path.
type ThresholdService interface {
	UpdateThresholds(ctx context.Context, locationID uuid.UUID, critical, low int) error
}

type thresholdService struct {
	locationRepo repositories.LocationRepository
}

func NewThresholdService(locationRepo repositories.LocationRepository) ThresholdService {
	return &thresholdService{locationRepo: locationRepo}
}

func (s *thresholdService) UpdateThresholds(ctx context.Context, locationID uuid.UUID, critical, low int) error {
	if critical <= 0 || low <= 0 {
		return fmt.Errorf("%w: thresholds must be positive", domain.ErrInvalidThreshold)
	}
	if critical >= low {
		return fmt.Errorf("%w: critical %d, low %d", domain.ErrInvalidThreshold, critical, low)
	}
	return s.locationRepo.UpdateThresholds(ctx, locationID, critical, low)
}
