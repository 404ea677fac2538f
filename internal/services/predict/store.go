package predict

import (
	"context"
	"sync"

	domsvc "github.com/Avina20/ForexVision/internal/domain/service"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// Factory builds a predictor for a pair. Selected by configuration.
type Factory func(pair string) domsvc.PricePredictor

// Store owns one predictor per pair. Fits are serialized per pair;
// predicts against a fitted model may run concurrently.
type Store struct {
	factory Factory

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	pred  domsvc.PricePredictor
	fitMu sync.Mutex
}

func NewStore(factory Factory) *Store {
	return &Store{factory: factory, entries: make(map[string]*entry)}
}

func (s *Store) get(pair string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[pair]
	if !ok {
		e = &entry{pred: s.factory(pair)}
		s.entries[pair] = e
	}
	return e
}

// Fit trains the pair's predictor. At most one fit per pair runs at a time.
func (s *Store) Fit(ctx context.Context, pair string, history *models.PriceSeries) error {
	e := s.get(pair)
	e.fitMu.Lock()
	defer e.fitMu.Unlock()
	return e.pred.Fit(ctx, history)
}

// Predict forecasts with the pair's current model.
func (s *Store) Predict(ctx context.Context, window *models.PriceSeries) (models.Forecast, error) {
	e := s.get(window.Pair)
	return e.pred.Predict(ctx, window)
}
