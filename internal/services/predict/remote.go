package predict

import (
	"context"
	"fmt"
	"sync"
	"time"

	domsvc "github.com/Avina20/ForexVision/internal/domain/service"

	"github.com/Avina20/ForexVision/internal/domain/models"
	xhttp "github.com/Avina20/ForexVision/pkg/http"
)

// RemotePredictor delegates fit/predict to a model-serving HTTP service.
// The model family behind the endpoint is the deployer's choice; this
// side only holds the contract and the fitted/not-fitted state per pair.
type RemotePredictor struct {
	pair    string
	baseURL string
	client  *xhttp.Client

	mu     sync.RWMutex
	fitted bool
}

func NewRemotePredictor(pair, baseURL string, timeout time.Duration) *RemotePredictor {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RemotePredictor{
		pair:    pair,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type fitRequest struct {
	Pair  string    `json:"pair"`
	Rates []float64 `json:"rates"`
}

type predictRequest struct {
	Pair  string    `json:"pair"`
	Rates []float64 `json:"rates"`
}

type predictResponse struct {
	Direction  float64 `json:"direction"`
	Confidence float64 `json:"confidence"`
}

func (p *RemotePredictor) Fit(ctx context.Context, history *models.PriceSeries) error {
	err := p.postJSON(ctx, "/predictor/fit", fitRequest{Pair: p.pair, Rates: history.Rates()}, nil)
	if err != nil {
		return fmt.Errorf("remote fit %s: %w", p.pair, err)
	}
	p.mu.Lock()
	p.fitted = true
	p.mu.Unlock()
	return nil
}

func (p *RemotePredictor) Predict(ctx context.Context, window *models.PriceSeries) (models.Forecast, error) {
	p.mu.RLock()
	fitted := p.fitted
	p.mu.RUnlock()
	if !fitted {
		return models.Forecast{}, &models.NotFittedError{Pair: p.pair}
	}

	var pr predictResponse
	err := p.postJSON(ctx, "/predictor/predict", predictRequest{Pair: p.pair, Rates: window.Rates()}, &pr)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("remote predict %s: %w", p.pair, err)
	}

	last := window.Last().Timestamp
	if last.IsZero() {
		last = time.Now()
	}
	mag := pr.Direction
	if mag < 0 {
		mag = -mag
	}
	return models.Forecast{
		Pair:       window.Pair,
		Timestamp:  last,
		Direction:  pr.Direction,
		Magnitude:  mag,
		Confidence: pr.Confidence,
	}, nil
}

func (p *RemotePredictor) postJSON(ctx context.Context, path string, payload, dest interface{}) error {
	return p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     p.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    payload,
	}, dest)
}

var _ domsvc.PricePredictor = (*RemotePredictor)(nil)
