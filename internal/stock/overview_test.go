package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

func testLocation(name string, critical, low int) *models.Location {
	return &models.Location{
		ID:                     uuid.New(),
		Name:                   name,
		Type:                   models.LocationTypeShop,
		CriticalStockThreshold: critical,
		LowStockThreshold:      low,
	}
}

func snapshotFor(name string, onHandKg float64, lastActivity *time.Time) *LocationSnapshot {
	return BuildSnapshot(testLocation(name, 20, 50), testItem(10), onHandKg, lastActivity, nil, AlertCounts{})
}

func TestBuildSnapshot(t *testing.T) {
	item := testItem(10)
	loc := testLocation("Main Street Shop", 20, 50)
	lastActivity := time.Date(2025, 8, 19, 10, 0, 0, 0, time.UTC)
	recent := []*models.Transaction{{ID: uuid.New(), Type: models.TransactionTypeIssue}}
	alerts := AlertCounts{LowStock: 2, Reorder: 1}

	snap := BuildSnapshot(loc, item, 450, &lastActivity, recent, alerts)

	assert.Equal(t, loc, snap.Location)
	assert.Equal(t, 450.0, snap.OnHandKg)
	assert.Equal(t, 45, snap.OnHandBags)
	assert.Equal(t, StatusLow, snap.Status)
	assert.Equal(t, 90, snap.CapacityPercent)
	assert.Equal(t, 50.0, snap.NeededToTargetKg)
	assert.Equal(t, recent, snap.RecentActivity)
	assert.Equal(t, alerts, snap.AlertCounts)
}

func TestSnapshotStale(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

	fresh := now.Add(-time.Hour)
	old := now.Add(-4 * 24 * time.Hour)
	boundary := now.Add(-72 * time.Hour)

	assert.False(t, snapshotFor("a", 100, &fresh).Stale(now))
	assert.True(t, snapshotFor("b", 100, &old).Stale(now))
	assert.False(t, snapshotFor("c", 100, &boundary).Stale(now), "exactly at the window is not stale")
	assert.True(t, snapshotFor("d", 100, nil).Stale(now), "no recorded activity is stale")
}

func TestFilterSnapshots(t *testing.T) {
	healthy := snapshotFor("Central Warehouse", 900, nil)
	low := snapshotFor("Hillside Shop", 450, nil)
	critical := snapshotFor("Station Shop", 50, nil)
	all := []*LocationSnapshot{healthy, low, critical}

	byStatus := FilterSnapshots(all, &models.LocationSearchFilter{Status: "critical"})
	require.Len(t, byStatus, 1)
	assert.Equal(t, critical, byStatus[0])

	byName := FilterSnapshots(all, &models.LocationSearchFilter{Query: "shop"})
	assert.Len(t, byName, 2)

	both := FilterSnapshots(all, &models.LocationSearchFilter{Query: "shop", Status: "low"})
	require.Len(t, both, 1)
	assert.Equal(t, low, both[0])

	assert.Len(t, FilterSnapshots(all, nil), 3)
	assert.Len(t, all, 3, "input never shrinks")
}

func TestSortSnapshots(t *testing.T) {
	recentAt := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	olderAt := recentAt.Add(-48 * time.Hour)

	a := snapshotFor("Alpha", 900, &olderAt)  // 100% capacity
	b := snapshotFor("Bravo", 450, &recentAt) // 90%
	c := snapshotFor("Charlie", 50, nil)      // 10%
	original := []*LocationSnapshot{b, c, a}

	byName := SortSnapshots(original, "name", "asc")
	assert.Equal(t, []*LocationSnapshot{a, b, c}, byName)

	byCapacityDesc := SortSnapshots(original, "capacity", "desc")
	assert.Equal(t, []*LocationSnapshot{a, b, c}, byCapacityDesc)

	byQuantityAsc := SortSnapshots(original, "quantity", "asc")
	assert.Equal(t, []*LocationSnapshot{c, b, a}, byQuantityAsc)

	byRecent := SortSnapshots(original, "recent", "")
	assert.Equal(t, []*LocationSnapshot{b, a, c}, byRecent, "no-activity locations sort last")

	// Sorting never mutates the input collection.
	assert.Equal(t, []*LocationSnapshot{b, c, a}, original)
}
