package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
	domsvc "github.com/Avina20/ForexVision/internal/domain/service"
	"github.com/Avina20/ForexVision/internal/services/classify"
	"github.com/Avina20/ForexVision/internal/services/correlation"
	"github.com/Avina20/ForexVision/internal/services/features"
	"github.com/Avina20/ForexVision/internal/services/predict"
	"github.com/Avina20/ForexVision/internal/services/strategy"
)

type fakeRateStore struct {
	series map[string]*models.PriceSeries
	errs   map[string]error
}

func (f *fakeRateStore) GetSeries(_ context.Context, pair string, _, _ time.Time, _ domrepo.Timeframe) (*models.PriceSeries, error) {
	return f.GetLatestSeries(context.Background(), pair, 0, domrepo.TF1h)
}

func (f *fakeRateStore) GetLatestSeries(_ context.Context, pair string, _ int, _ domrepo.Timeframe) (*models.PriceSeries, error) {
	if err, ok := f.errs[pair]; ok {
		return nil, err
	}
	s, ok := f.series[pair]
	if !ok {
		return nil, errors.New("no data for " + pair)
	}
	return s, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(string, string) {}
func (noopMetrics) RecordError(string)               {}
func (noopMetrics) RecordLastRate(string, float64)   {}
func (noopMetrics) RecordLatency(string, float64)    {}
func (noopMetrics) RecordDecision(string, string)    {}

type captureSink struct {
	mu        sync.Mutex
	published [][]models.TradeDecision
}

func (c *captureSink) Publish(_ context.Context, decisions []models.TradeDecision) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, decisions)
	return nil
}

func (c *captureSink) Close() error { return nil }

type captureAudit struct {
	mu      sync.Mutex
	reports []*models.EvaluationReport
}

func (c *captureAudit) StoreReport(_ context.Context, r *models.EvaluationReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
	return nil
}

func testSeries(t *testing.T, pair string, rates []float64) *models.PriceSeries {
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

func wavyRates(n int, base, drift, amp float64) []float64 {
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = base + drift*float64(i) + amp*math.Sin(float64(i))
	}
	return rates
}

func alternatingRates(n int) []float64 {
	rates := make([]float64, n)
	for i := range rates {
		if i%2 == 0 {
			rates[i] = 1.0
		} else {
			rates[i] = 1.5
		}
	}
	return rates
}

func buildEvaluator(store domrepo.RateStore, pairs []string) *Evaluator {
	extractor := features.NewExtractor(64, 10, 5, 2, 5, domrepo.TF1h)
	classifier := classify.NewThresholdClassifier(1.3, 1.5, 0.3, 0.7)
	predictors := predict.NewStore(func(pair string) domsvc.PricePredictor {
		return predict.NewLinearPredictor(pair, 2, 0.05, 500)
	})
	return NewEvaluator(
		store,
		correlation.NewBuilder(10),
		extractor,
		classifier,
		predictors,
		strategy.NewEngine(0.01, 0.02, 0.25),
		strategy.NewTracker(3),
		noopMetrics{},
		pairs,
		domrepo.TF1h,
		10,
	)
}

func TestEvaluateCyclePartialFailure(t *testing.T) {
	store := &fakeRateStore{
		series: map[string]*models.PriceSeries{
			"EURUSD": testSeries(t, "EURUSD", wavyRates(64, 1.10, 0.0002, 0.0005)),
			"GBPUSD": testSeries(t, "GBPUSD", wavyRates(64, 1.25, -0.0001, 0.0004)),
			"THIN":   testSeries(t, "THIN", wavyRates(5, 1.0, 0.001, 0)),
		},
		errs: map[string]error{"BROKEN": errors.New("store unavailable")},
	}
	eval := buildEvaluator(store, []string{"EURUSD", "GBPUSD", "BROKEN", "THIN"})
	sink := &captureSink{}
	audit := &captureAudit{}
	eval.SetSink(sink)
	eval.SetAudit(audit)

	report, err := eval.EvaluateCycle(context.Background(), EvaluateParams{N: 64})
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "EURUSD", report.Results[0].Pair)
	assert.Equal(t, "GBPUSD", report.Results[1].Pair)

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "BROKEN", report.Failures[0].Pair)
	assert.Equal(t, "THIN", report.Failures[1].Pair)

	require.NotNil(t, report.Correlations)
	diag, ok := report.Correlations.At("EURUSD", "EURUSD")
	require.True(t, ok)
	assert.Equal(t, 1.0, diag)

	for _, r := range report.Results {
		assert.True(t, r.Features.Complete())
		if r.Label == models.NonForecastable {
			assert.Nil(t, r.Forecast)
			assert.Equal(t, models.Flat, r.Decision.Action)
		} else {
			assert.NotNil(t, r.Forecast)
		}
		assert.Equal(t, r.Pair, r.Decision.Pair)
	}

	require.Len(t, sink.published, 1)
	assert.Len(t, sink.published[0], 2)
	require.Len(t, audit.reports, 1)
	assert.Same(t, report, audit.reports[0])
}

func TestEvaluateCycleNonForecastableIsFlat(t *testing.T) {
	store := &fakeRateStore{
		series: map[string]*models.PriceSeries{
			"NOISY": testSeries(t, "NOISY", alternatingRates(64)),
		},
	}
	eval := buildEvaluator(store, []string{"NOISY"})

	report, err := eval.EvaluateCycle(context.Background(), EvaluateParams{N: 64})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Equal(t, models.NonForecastable, res.Label)
	assert.Nil(t, res.Forecast)
	assert.Equal(t, models.Flat, res.Decision.Action)
}

func TestEvaluateCycleAllPairsFail(t *testing.T) {
	store := &fakeRateStore{
		errs: map[string]error{
			"EURUSD": errors.New("store unavailable"),
			"GBPUSD": errors.New("store unavailable"),
		},
	}
	eval := buildEvaluator(store, []string{"EURUSD", "GBPUSD"})

	report, err := eval.EvaluateCycle(context.Background(), EvaluateParams{})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Len(t, report.Failures, 2)
	assert.Nil(t, report.Correlations)
}

func TestEvaluateCyclePairSubset(t *testing.T) {
	store := &fakeRateStore{
		series: map[string]*models.PriceSeries{
			"EURUSD": testSeries(t, "EURUSD", wavyRates(64, 1.10, 0.0002, 0.0005)),
			"GBPUSD": testSeries(t, "GBPUSD", wavyRates(64, 1.25, -0.0001, 0.0004)),
		},
	}
	eval := buildEvaluator(store, []string{"EURUSD", "GBPUSD"})

	report, err := eval.EvaluateCycle(context.Background(), EvaluateParams{Pairs: []string{"EURUSD"}, N: 64})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "EURUSD", report.Results[0].Pair)
}
