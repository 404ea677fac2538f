package usecase

import (
	"context"

	"github.com/Avina20/ForexVision/internal/domain/models"
	drepo "github.com/Avina20/ForexVision/internal/domain/repository"
	mid "github.com/Avina20/ForexVision/internal/middleware"
)

// RateCollector collects rate ticks from the feed stream and processes them.
type RateCollector struct {
	stream  drepo.RateStream
	proc    *RateProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewRateCollector creates a new RateCollector instance.
func NewRateCollector(stream drepo.RateStream, proc *RateProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *RateCollector {
	return &RateCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the feed stream is connected.
func (c *RateCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *RateCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *RateCollector) consume(ctx context.Context, tickCh <-chan *models.RateTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
			c.metrics.RecordLastRate(t.Pair, t.Rate)
		}
	}
}

func (c *RateCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying RateProcessor for lifecycle management.
func (c *RateCollector) Processor() *RateProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *RateCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
