package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	models "github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
	icache "github.com/Avina20/ForexVision/internal/service/cache"
	"github.com/Avina20/ForexVision/internal/service/metrics"
	"github.com/Avina20/ForexVision/internal/service/ratelimit"
	"github.com/Avina20/ForexVision/internal/usecase"
	xhttp "github.com/Avina20/ForexVision/pkg/http"
	xlogger "github.com/Avina20/ForexVision/pkg/logger"
	xutil "github.com/Avina20/ForexVision/pkg/util"

	"github.com/labstack/echo/v4"
)

// DecisionsEchoHandler exposes the evaluation cycle over HTTP.
type DecisionsEchoHandler struct {
	logger *xlogger.Logger
	eval   *usecase.Evaluator
	hist   *usecase.HistoryUseCase
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
	ttl    time.Duration
}

func NewDecisionsEchoHandler(logger *xlogger.Logger, eval *usecase.Evaluator, hist *usecase.HistoryUseCase, ttl time.Duration) *DecisionsEchoHandler {
	metrics.Register()
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DecisionsEchoHandler{logger: logger, eval: eval, hist: hist, rl: ratelimit.New(), ttl: ttl}
}

func (h *DecisionsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *DecisionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/evaluate", h.Evaluate)
	g.GET("/decisions", h.Decisions)
	g.GET("/classification", h.Classification)
	g.GET("/correlation", h.Correlation)
	g.GET("/history", h.History)
}

// report runs (or fetches from cache) a full evaluation cycle.
func (h *DecisionsEchoHandler) report(c echo.Context, pairs []string, n int) (*models.EvaluationReport, error) {
	cacheKey := fmt.Sprintf("report:%s:%d", strings.Join(pairs, ","), n)
	if h.cache != nil && len(pairs) == 0 {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("evaluate cache_get_error", xlogger.Error(err))
		} else if ok {
			var r models.EvaluationReport
			if err := json.Unmarshal(b, &r); err == nil {
				return &r, nil
			}
		}
	}

	r, err := h.eval.EvaluateCycle(c.Request().Context(), usecase.EvaluateParams{Pairs: pairs, N: n})
	if err != nil {
		return nil, err
	}
	if h.cache != nil && len(pairs) == 0 {
		if b, err := json.Marshal(r); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.ttl); err != nil {
				h.logger.Warn("evaluate cache_set_error", xlogger.Error(err))
			}
		}
	}
	return r, nil
}

func (h *DecisionsEchoHandler) Evaluate(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EvaluationLatency.WithLabelValues("evaluate").Observe(time.Since(start).Seconds()) }()

	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":evaluate", 3, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "rate limited", 429))
	}

	r, err := h.report(c, req.Pairs, req.N)
	if err != nil {
		metrics.EvaluationErrors.WithLabelValues("evaluate").Inc()
		h.logger.Error("evaluate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	for _, res := range r.Results {
		metrics.PairLabels.WithLabelValues(res.Pair).Set(float64(res.Label))
	}
	return xhttp.SuccessResponse(c, r)
}

func (h *DecisionsEchoHandler) Decisions(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EvaluationLatency.WithLabelValues("decisions").Observe(time.Since(start).Seconds()) }()

	req := &models.DecisionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.report(c, nil, req.N)
	if err != nil {
		metrics.EvaluationErrors.WithLabelValues("decisions").Inc()
		h.logger.Error("decisions usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	for _, res := range r.Results {
		if res.Pair == req.Pair {
			return xhttp.SuccessResponse(c, res.Decision)
		}
	}
	for _, f := range r.Failures {
		if f.Pair == req.Pair {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(f.Err))
		}
	}
	return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("pair %s not evaluated", req.Pair))
}

func (h *DecisionsEchoHandler) Classification(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EvaluationLatency.WithLabelValues("classification").Observe(time.Since(start).Seconds()) }()

	req := &models.ClassificationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.report(c, nil, req.N)
	if err != nil {
		metrics.EvaluationErrors.WithLabelValues("classification").Inc()
		h.logger.Error("classification usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	for _, res := range r.Results {
		if res.Pair == req.Pair {
			return xhttp.SuccessResponse(c, map[string]interface{}{
				"pair":     res.Pair,
				"label":    res.Label.String(),
				"features": res.Features,
			})
		}
	}
	for _, f := range r.Failures {
		if f.Pair == req.Pair {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(f.Err))
		}
	}
	return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("pair %s not evaluated", req.Pair))
}

func (h *DecisionsEchoHandler) Correlation(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EvaluationLatency.WithLabelValues("correlation").Observe(time.Since(start).Seconds()) }()

	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.report(c, nil, req.N)
	if err != nil {
		metrics.EvaluationErrors.WithLabelValues("correlation").Inc()
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if r.Correlations == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundError("no correlation matrix for this cycle"))
	}
	return xhttp.SuccessResponse(c, r.Correlations)
}

func (h *DecisionsEchoHandler) History(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EvaluationLatency.WithLabelValues("history").Observe(time.Since(start).Seconds()) }()

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	to := time.Now()
	if req.To > 0 {
		to = time.Unix(req.To, 0)
	}
	from := to.Add(-30 * 24 * time.Hour)
	if req.From > 0 {
		from = time.Unix(req.From, 0)
	}
	from, to = xutil.AlignFromTo(from, to, string(tf))

	res, err := h.hist.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Pair:      req.Pair,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     req.Limit,
	})
	if err != nil {
		metrics.EvaluationErrors.WithLabelValues("history").Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
