package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
	domsvc "github.com/Avina20/ForexVision/internal/domain/service"
	"github.com/Avina20/ForexVision/internal/services/correlation"
	"github.com/Avina20/ForexVision/internal/services/features"
	"github.com/Avina20/ForexVision/internal/services/predict"
	"github.com/Avina20/ForexVision/internal/services/strategy"
	applogger "github.com/Avina20/ForexVision/pkg/logger"
)

// Evaluator runs one evaluation cycle: correlation matrix first, then
// feature extraction, classification, prediction, and the trade decision
// per pair. Per-pair failures are isolated; the report is always partial
// rather than aborted.
type Evaluator struct {
	store      domrepo.RateStore
	corr       *correlation.Builder
	extractor  *features.Extractor
	classifier domsvc.ForecastabilityClassifier
	predictors *predict.Store
	engine     *strategy.Engine
	trends     *strategy.Tracker
	sink       domrepo.DecisionSink  // optional
	audit      domrepo.DecisionAudit // optional
	metrics    domrepo.Metrics

	pairs      []string
	tf         domrepo.Timeframe
	minCorrLen int
	timeout    time.Duration
	l          *applogger.Logger
}

func NewEvaluator(
	store domrepo.RateStore,
	corr *correlation.Builder,
	extractor *features.Extractor,
	classifier domsvc.ForecastabilityClassifier,
	predictors *predict.Store,
	engine *strategy.Engine,
	trends *strategy.Tracker,
	metrics domrepo.Metrics,
	pairs []string,
	tf domrepo.Timeframe,
	minCorrSamples int,
) *Evaluator {
	return &Evaluator{
		store:      store,
		corr:       corr,
		extractor:  extractor,
		classifier: classifier,
		predictors: predictors,
		engine:     engine,
		trends:     trends,
		metrics:    metrics,
		pairs:      pairs,
		tf:         tf,
		minCorrLen: minCorrSamples + 1, // returns need one extra rate
		timeout:    30 * time.Second,
	}
}

// SetLogger injects a structured logger.
func (u *Evaluator) SetLogger(l *applogger.Logger) { u.l = l }

// SetSink wires the decision output boundary.
func (u *Evaluator) SetSink(s domrepo.DecisionSink) { u.sink = s }

// SetAudit wires decision persistence.
func (u *Evaluator) SetAudit(a domrepo.DecisionAudit) { u.audit = a }

type EvaluateParams struct {
	Pairs []string
	N     int
}

// EvaluateCycle evaluates every pair for the current window.
func (u *Evaluator) EvaluateCycle(ctx context.Context, p EvaluateParams) (*models.EvaluationReport, error) {
	pairs := p.Pairs
	if len(pairs) == 0 {
		pairs = u.pairs
	}
	n := p.N
	if n <= 0 {
		n = 256
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	start := time.Now()
	report := &models.EvaluationReport{
		Timestamp: start,
		Window:    n,
	}

	// load aligned windows; pairs too short for the correlation step are
	// skipped here so one thin series cannot sink the whole matrix
	loaded := make(map[string]*models.PriceSeries, len(pairs))
	for _, pair := range pairs {
		s, err := u.store.GetLatestSeries(ctx, pair, n, u.tf)
		if err != nil {
			report.Failures = append(report.Failures, models.PairError{Pair: pair, Err: err.Error()})
			u.metrics.RecordError("load_series")
			continue
		}
		if s.Len() < u.minCorrLen {
			err := models.NewInsufficientData("correlation "+pair, u.minCorrLen, s.Len())
			report.Failures = append(report.Failures, models.PairError{Pair: pair, Err: err.Error()})
			continue
		}
		loaded[pair] = s
	}
	if len(loaded) == 0 {
		return report, nil
	}

	// data dependency: the matrix must exist before any extraction runs
	matrix, err := u.corr.Build(loaded)
	if err != nil {
		for pair := range loaded {
			report.Failures = append(report.Failures, models.PairError{Pair: pair, Err: err.Error()})
		}
		u.metrics.RecordError("correlation")
		return report, nil
	}
	report.Correlations = matrix

	type item struct {
		pair string
		res  models.PairResult
		err  error
	}
	ch := make(chan item, len(loaded))
	var wg sync.WaitGroup
	for pair, series := range loaded {
		wg.Add(1)
		go func(pair string, series *models.PriceSeries) {
			defer wg.Done()
			res, err := u.evaluatePair(ctx, pair, series, matrix.Row(pair))
			ch <- item{pair: pair, res: res, err: err}
		}(pair, series)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			report.Failures = append(report.Failures, models.PairError{Pair: it.pair, Err: it.err.Error()})
			u.metrics.RecordError("evaluate_pair")
			continue
		}
		report.Results = append(report.Results, it.res)
	}
	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Pair < report.Results[j].Pair })
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].Pair < report.Failures[j].Pair })

	u.emit(ctx, report)
	u.metrics.RecordLatency("evaluate_cycle", time.Since(start).Seconds())
	return report, nil
}

func (u *Evaluator) evaluatePair(ctx context.Context, pair string, series *models.PriceSeries, corrRow map[string]float64) (models.PairResult, error) {
	fv, err := u.extractor.Extract(series, corrRow)
	if err != nil {
		return models.PairResult{}, err
	}

	label := u.classifier.Classify(fv)
	res := models.PairResult{Pair: pair, Label: label, Features: fv}

	if label == models.NonForecastable {
		// no forecast for unforecastable pairs; decision is Flat
		res.Decision = u.engine.Decide(label, models.Forecast{Pair: pair, Timestamp: series.Last().Timestamp}, 0)
		return res, nil
	}

	// walk-forward: fit on everything before the evaluation point
	history := &models.PriceSeries{Pair: pair, Points: series.Points[:series.Len()-1]}
	if err := u.predictors.Fit(ctx, pair, history); err != nil {
		return models.PairResult{}, err
	}
	forecast, err := u.predictors.Predict(ctx, series)
	if err != nil {
		return models.PairResult{}, err
	}

	decision := u.engine.Decide(label, forecast, u.trends.Signal(pair))
	u.trends.Observe(pair, forecast.Direction)
	u.metrics.RecordDecision(pair, decision.Action.String())

	res.Forecast = &forecast
	res.Decision = decision
	return res, nil
}

// emit pushes decisions to the execution boundary and the audit store.
// Emission failures are logged, never propagated into the report.
func (u *Evaluator) emit(ctx context.Context, report *models.EvaluationReport) {
	if u.sink != nil && len(report.Results) > 0 {
		decisions := make([]models.TradeDecision, 0, len(report.Results))
		for _, r := range report.Results {
			decisions = append(decisions, r.Decision)
		}
		if err := u.sink.Publish(ctx, decisions); err != nil {
			u.metrics.RecordError("publish_decisions")
			if u.l != nil {
				u.l.Error("decision publish error", applogger.Error(err))
			}
		}
	}
	if u.audit != nil {
		if err := u.audit.StoreReport(ctx, report); err != nil {
			u.metrics.RecordError("audit_report")
			if u.l != nil {
				u.l.Error("decision audit error", applogger.Error(err))
			}
		}
	}
}
