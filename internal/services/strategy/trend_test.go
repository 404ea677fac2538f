package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerSignalNeedsFullRun(t *testing.T) {
	tr := NewTracker(3)

	tr.Observe("EURUSD", 0.01)
	tr.Observe("EURUSD", 0.02)
	assert.Equal(t, 0, tr.Signal("EURUSD"), "run shorter than lookback")

	tr.Observe("EURUSD", 0.005)
	assert.Equal(t, 1, tr.Signal("EURUSD"))
}

func TestTrackerSignFlipResetsRun(t *testing.T) {
	tr := NewTracker(3)

	tr.Observe("EURUSD", 0.01)
	tr.Observe("EURUSD", 0.02)
	tr.Observe("EURUSD", -0.01)
	assert.Equal(t, 0, tr.Signal("EURUSD"))

	tr.Observe("EURUSD", -0.02)
	tr.Observe("EURUSD", -0.03)
	assert.Equal(t, -1, tr.Signal("EURUSD"))
}

func TestTrackerZeroDirectionBreaksRun(t *testing.T) {
	tr := NewTracker(3)

	tr.Observe("EURUSD", 0.01)
	tr.Observe("EURUSD", 0)
	tr.Observe("EURUSD", 0.02)
	assert.Equal(t, 0, tr.Signal("EURUSD"))
}

func TestTrackerPairsAreIndependent(t *testing.T) {
	tr := NewTracker(2)

	tr.Observe("EURUSD", 0.01)
	tr.Observe("EURUSD", 0.01)
	tr.Observe("GBPUSD", -0.01)
	tr.Observe("GBPUSD", -0.01)

	assert.Equal(t, 1, tr.Signal("EURUSD"))
	assert.Equal(t, -1, tr.Signal("GBPUSD"))
}

func TestTrackerDisabled(t *testing.T) {
	tr := NewTracker(0)
	tr.Observe("EURUSD", 0.01)
	assert.Equal(t, 0, tr.Signal("EURUSD"))
}
