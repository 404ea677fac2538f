package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
	"github.com/Avina20/ForexVision/internal/domain/repository"
)

func hourlySeries(t *testing.T, pair string, rates []float64) *models.PriceSeries {
	t.Helper()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, len(rates))
	for i, r := range rates {
		points[i] = models.PricePoint{Timestamp: start.Add(time.Duration(i) * time.Hour), Rate: r}
	}
	s, err := models.NewPriceSeries(pair, points)
	require.NoError(t, err)
	return s
}

func TestExtractCompleteVector(t *testing.T) {
	rates := make([]float64, 64)
	for i := range rates {
		rates[i] = 1.10 + 0.0004*float64(i)
	}
	e := NewExtractor(64, 10, 5, 2, 5, repository.TF1h)

	fv, err := e.Extract(hourlySeries(t, "EURUSD", rates), map[string]float64{
		"GBPUSD": 0.5,
		"USDJPY": -0.9,
	})
	require.NoError(t, err)
	require.True(t, fv.Complete())

	assert.InDelta(t, 1.0, fv[models.FeatFractalDim], 0.2)
	assert.GreaterOrEqual(t, fv[models.FeatBandRatio], 0.0)
	assert.InDelta(t, 0.7, fv[models.FeatCorrMean], 1e-9)
	assert.InDelta(t, 0.9, fv[models.FeatCorrMax], 1e-9)
	assert.GreaterOrEqual(t, fv[models.FeatSigma], 0.0)
}

func TestExtractEmptyCorrelationRow(t *testing.T) {
	rates := make([]float64, 64)
	for i := range rates {
		rates[i] = 1.25 + 0.0002*float64(i)
	}
	e := NewExtractor(64, 10, 5, 2, 5, repository.TF1h)

	fv, err := e.Extract(hourlySeries(t, "GBPUSD", rates), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fv[models.FeatCorrMean])
	assert.Equal(t, 0.0, fv[models.FeatCorrMax])
}

func TestExtractTooShort(t *testing.T) {
	e := NewExtractor(64, 10, 5, 2, 5, repository.TF1h)

	_, err := e.Extract(hourlySeries(t, "EURUSD", []float64{1.1, 1.2, 1.3}), nil)
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestExtractUsesTrailingWindow(t *testing.T) {
	// long flat run-up followed by the analysis window; only the trailing
	// window rates should drive the features
	rates := make([]float64, 200)
	for i := range rates {
		rates[i] = 1.0 + 0.0001*float64(i)
	}
	e := NewExtractor(64, 10, 5, 2, 5, repository.TF1h)

	full, err := e.Extract(hourlySeries(t, "EURUSD", rates), nil)
	require.NoError(t, err)
	tail, err := e.Extract(hourlySeries(t, "EURUSD", rates[len(rates)-64:]), nil)
	require.NoError(t, err)

	assert.InDelta(t, tail[models.FeatFractalDim], full[models.FeatFractalDim], 1e-9)
	assert.InDelta(t, tail[models.FeatBandRatio], full[models.FeatBandRatio], 1e-9)
}
