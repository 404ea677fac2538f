package predict

import (
	"context"
	"math"
	"sync"
	"time"

	domsvc "github.com/Avina20/ForexVision/internal/domain/service"

	"github.com/Avina20/ForexVision/internal/domain/models"
	"github.com/Avina20/ForexVision/internal/services/features"
)

// LinearPredictor is a univariate autoregression on lagged log returns,
// trained with gradient descent. One instance per pair; Fit replaces the
// weights wholesale, Predict only reads them.
type LinearPredictor struct {
	pair         string
	lags         int
	learningRate float64
	epochs       int

	mu      sync.RWMutex
	weights []float64 // weights[0] is the bias
}

func NewLinearPredictor(pair string, lags int, learningRate float64, epochs int) *LinearPredictor {
	if lags < 1 {
		lags = 1
	}
	if learningRate <= 0 {
		learningRate = 0.01
	}
	if epochs <= 0 {
		epochs = 400
	}
	return &LinearPredictor{pair: pair, lags: lags, learningRate: learningRate, epochs: epochs}
}

// Fit trains on the history's lagged returns. Walk-forward discipline is
// the caller's job: history must end at the evaluation point.
func (p *LinearPredictor) Fit(ctx context.Context, history *models.PriceSeries) error {
	rets := features.ComputeLogReturns(history.Rates())
	need := p.lags + 2
	if len(rets) < need {
		return models.NewInsufficientData("predictor fit "+p.pair, need, len(rets))
	}

	// supervised pairs: lags consecutive returns -> the next return
	var x [][]float64
	var y []float64
	for i := p.lags; i < len(rets); i++ {
		x = append(x, rets[i-p.lags:i])
		y = append(y, rets[i])
	}

	weights := make([]float64, p.lags+1)
	n := float64(len(x))
	for epoch := 0; epoch < p.epochs; epoch++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		grads := make([]float64, len(weights))
		for i, xi := range x {
			pred := weights[0]
			for j, f := range xi {
				pred += weights[j+1] * f
			}
			diff := pred - y[i]
			grads[0] += diff
			for j, f := range xi {
				grads[j+1] += diff * f
			}
		}
		for j := range weights {
			weights[j] -= p.learningRate * grads[j] / n
		}
	}

	p.mu.Lock()
	p.weights = weights
	p.mu.Unlock()
	return nil
}

// Predict forecasts the next-period return from the window's trailing lags.
func (p *LinearPredictor) Predict(_ context.Context, window *models.PriceSeries) (models.Forecast, error) {
	p.mu.RLock()
	weights := p.weights
	p.mu.RUnlock()
	if weights == nil {
		return models.Forecast{}, &models.NotFittedError{Pair: p.pair}
	}

	rets := features.ComputeLogReturns(window.Rates())
	if len(rets) < p.lags {
		return models.Forecast{}, models.NewInsufficientData("predictor window "+p.pair, p.lags, len(rets))
	}
	tail := rets[len(rets)-p.lags:]

	direction := weights[0]
	for j, f := range tail {
		direction += weights[j+1] * f
	}

	last := window.Last().Timestamp
	if last.IsZero() {
		last = time.Now()
	}
	return models.Forecast{
		Pair:       window.Pair,
		Timestamp:  last,
		Direction:  direction,
		Magnitude:  math.Abs(direction),
		Confidence: confidence(direction, rets),
	}, nil
}

// confidence scales |direction| by the window's return dispersion,
// clamped to [0,1].
func confidence(direction float64, rets []float64) float64 {
	var sum2 float64
	for _, r := range rets {
		sum2 += r * r
	}
	if sum2 == 0 {
		return 0
	}
	sigma := math.Sqrt(sum2 / float64(len(rets)))
	c := math.Abs(direction) / sigma
	if c > 1 {
		c = 1
	}
	return c
}

var _ domsvc.PricePredictor = (*LinearPredictor)(nil)
