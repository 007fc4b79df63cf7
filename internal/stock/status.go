package stock

import (
	"math"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// Status is the three-state stock health classification of a location.
type Status string

const (
	StatusCritical Status = "critical"
	StatusLow      Status = "low"
	StatusHealthy  Status = "healthy"
)

// Classify maps an on-hand kg quantity against per-location thresholds
// (expressed in whole bags). The low threshold itself is healthy. The
// function is total: an inverted threshold pair still yields a deterministic
// result; rejecting such configurations is the write boundary's job.
func Classify(onHandKg float64, item *models.Item, criticalBags, lowBags int) Status {
	bags := WholeBags(onHandKg, item)
	switch {
	case bags < criticalBags:
		return StatusCritical
	case bags < lowBags:
		return StatusLow
	default:
		return StatusHealthy
	}
}

// CapacityPercent expresses on-hand stock as a percentage of the low
// threshold, capped at 100. A non-positive threshold reads as fully stocked
// rather than dividing by zero.
func CapacityPercent(onHandKg float64, item *models.Item, lowBags int) int {
	if lowBags <= 0 {
		return 100
	}
	bags := WholeBags(onHandKg, item)
	pct := int(math.Round(float64(bags) / float64(lowBags) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// NeededToTarget returns the kg required to bring a location back to its low
// threshold, zero when already at or above it.
func NeededToTarget(onHandKg float64, item *models.Item, lowBags int) float64 {
	bags := WholeBags(onHandKg, item)
	if bags >= lowBags {
		return 0
	}
	return float64(lowBags-bags) * item.ConversionFactor
}
