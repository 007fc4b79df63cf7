package stock

import (
	"sort"
	"strings"
	"time"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// staleWindow is the freshness window used for display emphasis only; it
// plays no role in status classification.
const staleWindow = 72 * time.Hour

// AlertCounts groups a location's outstanding alerts by type.
type AlertCounts struct {
	LowStock     int `json:"low_stock"`
	ExpiringSoon int `json:"expiring_soon"`
	Reorder      int `json:"reorder"`
}

// LocationSnapshot is the derived, dashboard-ready view of one location's
// stock. It is recomputed on every read and never persisted or mutated.
type LocationSnapshot struct {
	Location         *models.Location      `json:"location"`
	OnHandKg         float64               `json:"on_hand_kg"`
	OnHandBags       int                   `json:"on_hand_bags"`
	Status           Status                `json:"status"`
	CapacityPercent  int                   `json:"capacity_percent"`
	NeededToTargetKg float64               `json:"needed_to_target_kg"`
	LastActivityAt   *time.Time            `json:"last_activity_at,omitempty"`
	RecentActivity   []*models.Transaction `json:"recent_activity,omitempty"`
	AlertCounts      AlertCounts           `json:"alert_counts"`
}

// Stale reports whether the location has seen no activity within the
// freshness window relative to now.
func (s *LocationSnapshot) Stale(now time.Time) bool {
	if s.LastActivityAt == nil {
		return true
	}
	return now.Sub(*s.LastActivityAt) > staleWindow
}

// BuildSnapshot classifies one location's on-hand stock and assembles the
// derived dashboard view.
func BuildSnapshot(loc *models.Location, item *models.Item, onHandKg float64,
	lastActivity *time.Time, recent []*models.Transaction, alerts AlertCounts) *LocationSnapshot {
	return &LocationSnapshot{
		Location:         loc,
		OnHandKg:         onHandKg,
		OnHandBags:       WholeBags(onHandKg, item),
		Status:           Classify(onHandKg, item, loc.CriticalStockThreshold, loc.LowStockThreshold),
		CapacityPercent:  CapacityPercent(onHandKg, item, loc.LowStockThreshold),
		NeededToTargetKg: NeededToTarget(onHandKg, item, loc.LowStockThreshold),
		LastActivityAt:   lastActivity,
		RecentActivity:   recent,
		AlertCounts:      alerts,
	}
}

// FilterSnapshots narrows a snapshot collection by computed status and
// case-insensitive name substring. The input is never mutated.
func FilterSnapshots(snapshots []*LocationSnapshot, filter *models.LocationSearchFilter) []*LocationSnapshot {
	if filter == nil || (filter.Status == "" && filter.Query == "") {
		return append([]*LocationSnapshot(nil), snapshots...)
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]*LocationSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(s.Location.Name), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSnapshots returns a sorted copy of the collection. Sorting is stable
// and side-effect-free; unknown sort fields fall back to name order.
func SortSnapshots(snapshots []*LocationSnapshot, sortBy, sortOrder string) []*LocationSnapshot {
	out := append([]*LocationSnapshot(nil), snapshots...)
	desc := strings.EqualFold(sortOrder, "desc")

	var less func(a, b *LocationSnapshot) bool
	switch sortBy {
	case "capacity":
		less = func(a, b *LocationSnapshot) bool { return a.CapacityPercent < b.CapacityPercent }
	case "quantity":
		less = func(a, b *LocationSnapshot) bool { return a.OnHandKg < b.OnHandKg }
	case "recent":
		// Most-recently-active first; locations with no recorded activity
		// sort last. sortOrder is ignored for this field.
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			switch {
			case a.LastActivityAt == nil:
				return false
			case b.LastActivityAt == nil:
				return true
			default:
				return a.LastActivityAt.After(*b.LastActivityAt)
			}
		})
		return out
	default:
		less = func(a, b *LocationSnapshot) bool {
			return strings.ToLower(a.Location.Name) < strings.ToLower(b.Location.Name)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
