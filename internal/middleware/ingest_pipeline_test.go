package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

type recordingProc struct {
	mu    sync.Mutex
	ticks []*models.RateTick
	err   error
}

func (r *recordingProc) Process(_ context.Context, t *models.RateTick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.ticks = append(r.ticks, t)
	return nil
}

func (r *recordingProc) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(string, string) {}
func (noopMetrics) RecordError(string)               {}
func (noopMetrics) RecordLastRate(string, float64)   {}
func (noopMetrics) RecordLatency(string, float64)    {}
func (noopMetrics) RecordDecision(string, string)    {}

func tick(pair string, rate float64) *models.RateTick {
	return &models.RateTick{Pair: pair, Timestamp: time.Now().Unix(), Rate: rate}
}

func TestPipelineForwardsValidTick(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, noopMetrics{})

	require.NoError(t, p.Process(context.Background(), tick("EURUSD", 1.1352)))
	assert.Equal(t, 1, proc.count())
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, noopMetrics{})
	ctx := context.Background()

	assert.Error(t, p.Process(ctx, nil))
	assert.Error(t, p.Process(ctx, &models.RateTick{Pair: "", Timestamp: 1, Rate: 1}))
	assert.Error(t, p.Process(ctx, &models.RateTick{Pair: "EURUSD", Timestamp: 0, Rate: 1}))
	assert.Error(t, p.Process(ctx, &models.RateTick{Pair: "EURUSD", Timestamp: 1, Rate: -1}))
	assert.Error(t, p.Process(ctx, &models.RateTick{Pair: "EURUSD", Timestamp: 1, Rate: 0}))
	assert.Equal(t, 0, proc.count())
}

func TestPipelineAppliesTransform(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, noopMetrics{}, WithTransform(func(in *models.RateTick) *models.RateTick {
		out := *in
		out.Rate = out.Rate * 2
		return &out
	}))

	require.NoError(t, p.Process(context.Background(), tick("EURUSD", 1.0)))
	require.Equal(t, 1, proc.count())
	assert.Equal(t, 2.0, proc.ticks[0].Rate)
}

func TestPipelineThrottlesPerPair(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, noopMetrics{}, WithMaxRPS(1))
	ctx := context.Background()

	// second tick inside the same second is dropped without error
	require.NoError(t, p.Process(ctx, tick("EURUSD", 1.1)))
	require.NoError(t, p.Process(ctx, tick("EURUSD", 1.2)))
	assert.Equal(t, 1, proc.count())

	// other pairs throttle independently
	require.NoError(t, p.Process(ctx, tick("GBPUSD", 1.3)))
	assert.Equal(t, 2, proc.count())
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{err: errors.New("downstream down")}
	p := NewIngestPipeline(proc, noopMetrics{}, WithBufferSize(10))
	ctx := context.Background()

	err := p.Process(ctx, tick("EURUSD", 1.1))
	require.Error(t, err)
	assert.Equal(t, 1, len(p.bufCh), "failed tick is buffered for retry")

	// recovery: the flush loop drains the buffer
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()
	p.Start(ctx)
	defer p.Stop()

	assert.Eventually(t, func() bool { return proc.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
