package models

import (
	"fmt"
	"time"
)

// PricePoint is a single observation of a currency pair exchange rate.
type PricePoint struct {
	Timestamp time.Time
	Rate      float64
}

// PriceSeries is an ordered window of rates for one currency pair.
// Timestamps are strictly increasing with no duplicates. A series is
// treated as immutable once constructed for a given analysis window.
type PriceSeries struct {
	Pair   string
	Points []PricePoint
}

// NewPriceSeries validates ordering and builds a series.
func NewPriceSeries(pair string, points []PricePoint) (*PriceSeries, error) {
	if pair == "" {
		return nil, fmt.Errorf("pair required")
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Timestamp.After(points[i-1].Timestamp) {
			return nil, fmt.Errorf("series %s: timestamps not strictly increasing at index %d", pair, i)
		}
	}
	return &PriceSeries{Pair: pair, Points: points}, nil
}

func (s *PriceSeries) Len() int { return len(s.Points) }

// Rates returns the rate values in timestamp order.
func (s *PriceSeries) Rates() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Rate
	}
	return out
}

// Last returns the most recent point. Zero value when empty.
func (s *PriceSeries) Last() PricePoint {
	if len(s.Points) == 0 {
		return PricePoint{}
	}
	return s.Points[len(s.Points)-1]
}

// Tail returns a new series holding the trailing n points.
func (s *PriceSeries) Tail(n int) (*PriceSeries, error) {
	if len(s.Points) < n {
		return nil, NewInsufficientData("series tail", n, len(s.Points))
	}
	return &PriceSeries{Pair: s.Pair, Points: s.Points[len(s.Points)-n:]}, nil
}
