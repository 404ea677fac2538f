package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

func TestHiguchiFDLine(t *testing.T) {
	series := make([]float64, 128)
	for i := range series {
		series[i] = 1.0 + 0.01*float64(i)
	}

	fd, err := HiguchiFD(series, 8)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fd, 0.05, "a straight line should estimate near 1")
}

func TestHiguchiFDAlternating(t *testing.T) {
	series := make([]float64, 128)
	for i := range series {
		if i%2 == 0 {
			series[i] = 1.0
		} else {
			series[i] = 1.5
		}
	}

	fd, err := HiguchiFD(series, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fd, 0.15, "pure oscillation should estimate near 2")
}

func TestHiguchiFDFlat(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		series[i] = 1.2345
	}

	fd, err := HiguchiFD(series, 8)
	require.NoError(t, err)
	assert.Equal(t, 1.0, fd)
}

func TestHiguchiFDTooShort(t *testing.T) {
	_, err := HiguchiFD([]float64{1, 2, 3}, 8)
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestComputeLogReturns(t *testing.T) {
	rets := ComputeLogReturns([]float64{1, 2, 4, 2})
	require.Len(t, rets, 3)
	assert.InDelta(t, math.Log(2), rets[0], 1e-12)
	assert.InDelta(t, math.Log(2), rets[1], 1e-12)
	assert.InDelta(t, -math.Log(2), rets[2], 1e-12)

	assert.Nil(t, ComputeLogReturns([]float64{1}))
}

func TestRealizedVolatilityConstantReturns(t *testing.T) {
	rets := make([]float64, 50)
	for i := range rets {
		rets[i] = 0.001
	}
	assert.InDelta(t, 0.0, RealizedVolatility(rets, len(rets), 365*24), 1e-6)
}

func TestRealizedVolatilityPositive(t *testing.T) {
	rets := make([]float64, 50)
	for i := range rets {
		if i%2 == 0 {
			rets[i] = 0.002
		} else {
			rets[i] = -0.002
		}
	}
	sigma := RealizedVolatility(rets, len(rets), 365*24)
	assert.Greater(t, sigma, 0.0)
}
