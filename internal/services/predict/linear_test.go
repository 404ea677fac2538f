package predict

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
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

func trendingRates(n int, ret float64) []float64 {
	rates := make([]float64, n)
	rates[0] = 1.0
	for i := 1; i < n; i++ {
		rates[i] = rates[i-1] * math.Exp(ret)
	}
	return rates
}

func TestPredictBeforeFit(t *testing.T) {
	p := NewLinearPredictor("EURUSD", 2, 0.05, 500)

	_, err := p.Predict(context.Background(), hourlySeries(t, "EURUSD", trendingRates(20, 0.01)))
	require.Error(t, err)
	assert.True(t, models.IsNotFitted(err))
}

func TestFitInsufficientData(t *testing.T) {
	p := NewLinearPredictor("EURUSD", 5, 0.05, 500)

	err := p.Fit(context.Background(), hourlySeries(t, "EURUSD", trendingRates(5, 0.01)))
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestFitPredictTrendingSeries(t *testing.T) {
	p := NewLinearPredictor("EURUSD", 2, 0.05, 2000)
	rates := trendingRates(60, 0.01)

	require.NoError(t, p.Fit(context.Background(), hourlySeries(t, "EURUSD", rates[:len(rates)-1])))

	f, err := p.Predict(context.Background(), hourlySeries(t, "EURUSD", rates))
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", f.Pair)
	assert.Greater(t, f.Direction, 0.0, "steady uptrend should forecast up")
	assert.InDelta(t, 0.01, f.Direction, 0.005)
	assert.Equal(t, math.Abs(f.Direction), f.Magnitude)
	assert.GreaterOrEqual(t, f.Confidence, 0.0)
	assert.LessOrEqual(t, f.Confidence, 1.0)
}

func TestFitPredictDowntrend(t *testing.T) {
	p := NewLinearPredictor("USDJPY", 2, 0.05, 2000)
	rates := trendingRates(60, -0.01)

	require.NoError(t, p.Fit(context.Background(), hourlySeries(t, "USDJPY", rates[:len(rates)-1])))

	f, err := p.Predict(context.Background(), hourlySeries(t, "USDJPY", rates))
	require.NoError(t, err)
	assert.Less(t, f.Direction, 0.0)
}

func TestFitHonorsContext(t *testing.T) {
	p := NewLinearPredictor("EURUSD", 2, 0.05, 500)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Fit(ctx, hourlySeries(t, "EURUSD", trendingRates(60, 0.01)))
	assert.ErrorIs(t, err, context.Canceled)
}
