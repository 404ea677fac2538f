package repository

import (
	"context"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// RateStream is a live feed of exchange-rate ticks.
type RateStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.RateTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// TickPublisher forwards rate ticks to the message backend.
type TickPublisher interface {
	Publish(ctx context.Context, t *models.RateTick) error
	PublishBatch(ctx context.Context, ticks []*models.RateTick) error
	Close() error
}

// TickStorage persists rate ticks.
type TickStorage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, t *models.RateTick) error
	StoreBatch(ctx context.Context, ticks []*models.RateTick) error
	Query(ctx context.Context, pair string, from, to time.Time, limit int) ([]*models.RateTick, error)
	Health(ctx context.Context) error
	Close() error
}

// DecisionSink emits trade decisions to the execution/persistence boundary.
type DecisionSink interface {
	Publish(ctx context.Context, decisions []models.TradeDecision) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordMessageSent(backend, pair string)
	RecordError(kind string)
	RecordLastRate(pair string, rate float64)
	RecordLatency(op string, seconds float64)
	RecordDecision(pair, action string)
}
