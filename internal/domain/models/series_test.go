package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceSeriesValidation(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewPriceSeries("", nil)
	assert.Error(t, err)

	_, err = NewPriceSeries("EURUSD", []PricePoint{
		{Timestamp: base, Rate: 1.1},
		{Timestamp: base, Rate: 1.2},
	})
	assert.Error(t, err, "duplicate timestamps rejected")

	_, err = NewPriceSeries("EURUSD", []PricePoint{
		{Timestamp: base.Add(time.Hour), Rate: 1.1},
		{Timestamp: base, Rate: 1.2},
	})
	assert.Error(t, err, "out of order timestamps rejected")

	s, err := NewPriceSeries("EURUSD", []PricePoint{
		{Timestamp: base, Rate: 1.1},
		{Timestamp: base.Add(time.Hour), Rate: 1.2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{1.1, 1.2}, s.Rates())
	assert.Equal(t, 1.2, s.Last().Rate)
}

func TestPriceSeriesTail(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	points := make([]PricePoint, 5)
	for i := range points {
		points[i] = PricePoint{Timestamp: base.Add(time.Duration(i) * time.Hour), Rate: float64(i)}
	}
	s, err := NewPriceSeries("EURUSD", points)
	require.NoError(t, err)

	tail, err := s.Tail(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, tail.Rates())

	_, err = s.Tail(10)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))
}

func TestCorrelationMatrix(t *testing.T) {
	m := NewCorrelationMatrix([]string{"GBPUSD", "EURUSD", "USDJPY"})

	assert.Equal(t, []string{"EURUSD", "GBPUSD", "USDJPY"}, m.Pairs())

	diag, ok := m.At("EURUSD", "EURUSD")
	require.True(t, ok)
	assert.Equal(t, 1.0, diag)

	m.Set("EURUSD", "GBPUSD", 0.8)
	ab, ok := m.At("EURUSD", "GBPUSD")
	require.True(t, ok)
	assert.Equal(t, 0.8, ab)
	ba, ok := m.At("GBPUSD", "EURUSD")
	require.True(t, ok)
	assert.Equal(t, 0.8, ba, "set is symmetric")

	_, ok = m.At("EURUSD", "AUDNZD")
	assert.False(t, ok)

	row := m.Row("EURUSD")
	assert.Len(t, row, 2)
	_, hasSelf := row["EURUSD"]
	assert.False(t, hasSelf)
}

func TestErrorPredicates(t *testing.T) {
	insufficient := NewInsufficientData("test", 10, 3)
	assert.True(t, IsInsufficientData(insufficient))
	assert.False(t, IsNotFitted(insufficient))
	assert.Contains(t, insufficient.Error(), "test")

	notFitted := &NotFittedError{Pair: "EURUSD"}
	assert.True(t, IsNotFitted(notFitted))
	assert.False(t, IsInsufficientData(notFitted))
	assert.Contains(t, notFitted.Error(), "EURUSD")
}

func TestLabelAndActionStrings(t *testing.T) {
	assert.Equal(t, "non_forecastable", NonForecastable.String())
	assert.Equal(t, "partially_forecastable", PartiallyForecastable.String())
	assert.Equal(t, "forecastable", Forecastable.String())

	assert.Equal(t, "flat", Flat.String())
	assert.Equal(t, "long", Long.String())
	assert.Equal(t, "short", Short.String())
}
