package repository

import (
	"context"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// Timeframe represents rate resolution buckets.
type Timeframe string

const (
	TF1h Timeframe = "1h"
	TF4h Timeframe = "4h"
	TF1d Timeframe = "1d"
)

// RateStore provides read-only access to aligned rate series for analysis.
type RateStore interface {
	GetSeries(ctx context.Context, pair string, from, to time.Time, tf Timeframe) (*models.PriceSeries, error)
	GetLatestSeries(ctx context.Context, pair string, n int, tf Timeframe) (*models.PriceSeries, error)
}

// DecisionAudit persists evaluation outcomes for later inspection.
type DecisionAudit interface {
	StoreReport(ctx context.Context, report *models.EvaluationReport) error
}
