package stock

import (
	"fmt"
	"math"
	"sort"

	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// DepletionPlan is the result of a FIFO walk over eligible batches. Entries
// sum exactly to RequestedKg; the plan is all-or-nothing from the caller's
// perspective.
type DepletionPlan struct {
	Entries        []models.BatchDelta `json:"entries"`
	RequestedKg    float64             `json:"requested_kg"`
	BatchesTouched int                 `json:"batches_touched"`
}

// InsufficientStockError reports that the eligible batch pool cannot satisfy
// a request. ShortfallKg is the exact amount that could not be covered; no
// batch is mutated.
type InsufficientStockError struct {
	RequestedKg float64
	AvailableKg float64
	ShortfallKg float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %.3f kg, available %.3f kg, short %.3f kg",
		e.RequestedKg, e.AvailableKg, e.ShortfallKg)
}

func (e *InsufficientStockError) Unwrap() error {
	return domain.ErrInsufficientStock
}

// EligibleBatches filters to available batches with remaining stock and
// sorts them oldest first, ties broken by batch ID for determinism. The
// input slice is never reordered.
func EligibleBatches(batches []*models.Batch) []*models.Batch {
	eligible := make([]*models.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Eligible() {
			eligible = append(eligible, b)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].ReceivedAt.Equal(eligible[j].ReceivedAt) {
			return eligible[i].ID.String() < eligible[j].ID.String()
		}
		return eligible[i].ReceivedAt.Before(eligible[j].ReceivedAt)
	})
	return eligible
}

// PlanDepletion walks the eligible batches in FIFO order, taking
// min(remaining, still needed) from each until the request is covered. When
// the pool is exhausted first, the full walk still runs so the shortfall is
// exact, and an InsufficientStockError is returned instead of a plan.
func PlanDepletion(batches []*models.Batch, requestedKg float64) (*DepletionPlan, error) {
	if requestedKg <= 0 {
		return nil, fmt.Errorf("%w: requested quantity must be positive", domain.ErrInvalidInput)
	}

	candidates := EligibleBatches(batches)
	plan := &DepletionPlan{RequestedKg: requestedKg}

	stillNeeded := requestedKg
	available := 0.0
	for _, b := range candidates {
		available += b.RemainingQty
		if stillNeeded <= 0 {
			continue
		}
		delta := math.Min(b.RemainingQty, stillNeeded)
		plan.Entries = append(plan.Entries, models.BatchDelta{BatchID: b.ID, DeltaKg: delta})
		stillNeeded -= delta
	}

	if stillNeeded > 0 {
		return nil, &InsufficientStockError{
			RequestedKg: requestedKg,
			AvailableKg: available,
			ShortfallKg: stillNeeded,
		}
	}

	plan.BatchesTouched = len(plan.Entries)
	return plan, nil
}

// ApplyDepletion decrements the in-memory batches per the plan, flipping a
// batch to depleted exactly when its remaining quantity reaches zero. The
// persistence layer mirrors this under a per-batch row lock; see
// repositories.BatchRepository.
func ApplyDepletion(batches []*models.Batch, plan *DepletionPlan) error {
	byID := make(map[string]*models.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID.String()] = b
	}
	for _, entry := range plan.Entries {
		b, ok := byID[entry.BatchID.String()]
		if !ok {
			return fmt.Errorf("%w: plan references unknown batch %s", domain.ErrConflict, entry.BatchID)
		}
		if b.RemainingQty < entry.DeltaKg {
			return fmt.Errorf("%w: batch %s has %.3f kg, plan needs %.3f kg",
				domain.ErrConflict, entry.BatchID, b.RemainingQty, entry.DeltaKg)
		}
		b.RemainingQty -= entry.DeltaKg
		if b.RemainingQty <= 0 {
			b.RemainingQty = 0
			b.Status = models.BatchStatusDepleted
		}
	}
	return nil
}

// FIFOSuggestion returns the oldest batch with remaining stock, for display
// purposes only. Nil when no batch is eligible.
func FIFOSuggestion(batches []*models.Batch) *models.Batch {
	candidates := EligibleBatches(batches)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}
