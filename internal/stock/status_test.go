package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	item := testItem(10) // 1 bag = 10 kg
	critical, low := 20, 50

	tests := []struct {
		name     string
		onHandKg float64
		want     Status
	}{
		{"well below critical", 50, StatusCritical},        // 5 bags
		{"just below critical", 190, StatusCritical},       // 19 bags
		{"at critical boundary", 200, StatusLow},           // 20 bags
		{"between thresholds", 450, StatusLow},             // 45 bags
		{"just below low", 490, StatusLow},                 // 49 bags
		{"at low boundary is healthy", 500, StatusHealthy}, // 50 bags
		{"well above low", 900, StatusHealthy},
		{"partial bag floors down", 199.9, StatusCritical}, // 19 whole bags
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.onHandKg, item, critical, low))
		})
	}
}

func TestClassifyInvertedThresholdsIsDeterministic(t *testing.T) {
	item := testItem(10)

	// Misconfigured critical >= low: rejection is the write boundary's job,
	// the classifier stays total and deterministic.
	assert.Equal(t, StatusCritical, Classify(300, item, 50, 20)) // 30 bags < 50
	assert.Equal(t, StatusHealthy, Classify(600, item, 50, 20))  // 60 bags
}

func TestCapacityPercent(t *testing.T) {
	item := testItem(10)

	assert.Equal(t, 90, CapacityPercent(450, item, 50))
	assert.Equal(t, 100, CapacityPercent(500, item, 50))
	assert.Equal(t, 100, CapacityPercent(5000, item, 50), "capped at 100")
	assert.Equal(t, 0, CapacityPercent(5, item, 50), "partial bag rounds to zero")
	assert.Equal(t, 100, CapacityPercent(0, item, 0), "zero threshold reads fully stocked")
	assert.Equal(t, 100, CapacityPercent(0, item, -1))
	assert.Equal(t, 50, CapacityPercent(253, item, 50), "rounds to nearest percent")
}

func TestNeededToTarget(t *testing.T) {
	item := testItem(10)

	assert.Equal(t, 50.0, NeededToTarget(450, item, 50), "5 bags short = 50 kg")
	assert.Equal(t, 0.0, NeededToTarget(500, item, 50), "at target")
	assert.Equal(t, 0.0, NeededToTarget(900, item, 50), "above target clamps to zero")
	assert.Equal(t, 500.0, NeededToTarget(0, item, 50))
}
