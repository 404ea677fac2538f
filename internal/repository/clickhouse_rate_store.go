package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
	pkgch "github.com/Avina20/ForexVision/pkg/clickhouse"
	applogger "github.com/Avina20/ForexVision/pkg/logger"
)

// CHRateStore implements RateStore and DecisionAudit backed by ClickHouse.
type CHRateStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHRateStore(ch *pkgch.Client) *CHRateStore {
	return &CHRateStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHRateStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHRateStore) GetSeries(ctx context.Context, pair string, from, to time.Time, tf domrepo.Timeframe) (*models.PriceSeries, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, rate
        FROM %s
        WHERE pair = ? AND bucket >= ? AND bucket <= ?
        ORDER BY bucket ASC
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, pair, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_series query error",
				applogger.String("table", table),
				applogger.String("pair", pair),
				applogger.String("tf", string(tf)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	defer rows.Close()

	points := make([]models.PricePoint, 0, 1024)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Timestamp, &p.Rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse get_series ok",
			applogger.String("table", table),
			applogger.String("pair", pair),
			applogger.String("tf", string(tf)),
			applogger.Int("rows", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return models.NewPriceSeries(pair, points)
}

func (s *CHRateStore) GetLatestSeries(ctx context.Context, pair string, n int, tf domrepo.Timeframe) (*models.PriceSeries, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, rate
        FROM %s
        WHERE pair = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, pair, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_series query error",
				applogger.String("table", table),
				applogger.String("pair", pair),
				applogger.String("tf", string(tf)),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest series: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PricePoint, 0, n)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Timestamp, &p.Rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_series ok",
			applogger.String("table", table),
			applogger.String("pair", pair),
			applogger.String("tf", string(tf)),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return models.NewPriceSeries(pair, tmp)
}

// StoreReport writes the per-pair outcomes of an evaluation cycle.
func (s *CHRateStore) StoreReport(ctx context.Context, report *models.EvaluationReport) error {
	const q = `
        INSERT INTO forexvision.trade_decisions
            (run_ts, pair, label, action, forecast, threshold, band_ratio, fractal_dim, corr_mean, corr_max)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, r := range report.Results {
		_, err := s.db.ExecContext(ctx, q,
			report.Timestamp,
			r.Pair,
			r.Label.String(),
			r.Decision.Action.String(),
			r.Decision.Forecast,
			r.Decision.Threshold,
			r.Features[models.FeatBandRatio],
			r.Features[models.FeatFractalDim],
			r.Features[models.FeatCorrMean],
			r.Features[models.FeatCorrMax],
		)
		if err != nil {
			return fmt.Errorf("store decision %s: %w", r.Pair, err)
		}
	}
	const qf = `
        INSERT INTO forexvision.evaluation_errors (run_ts, pair, error)
        VALUES (?, ?, ?)
    `
	for _, f := range report.Failures {
		if _, err := s.db.ExecContext(ctx, qf, report.Timestamp, f.Pair, f.Err); err != nil {
			return fmt.Errorf("store failure %s: %w", f.Pair, err)
		}
	}
	return nil
}

func tableForTF(tf domrepo.Timeframe) (string, error) {
	switch tf {
	case domrepo.TF1h:
		return "forexvision.fx_rates_1h", nil
	case domrepo.TF4h:
		return "forexvision.fx_rates_4h", nil
	case domrepo.TF1d:
		return "forexvision.fx_rates_1d", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}

var (
	_ domrepo.RateStore     = (*CHRateStore)(nil)
	_ domrepo.DecisionAudit = (*CHRateStore)(nil)
)
