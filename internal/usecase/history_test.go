package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
)

func TestGetHistory(t *testing.T) {
	store := &fakeRateStore{
		series: map[string]*models.PriceSeries{
			"EURUSD": testSeries(t, "EURUSD", wavyRates(48, 1.10, 0.0002, 0.0005)),
		},
	}
	uc := NewHistoryUseCase(store)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Pair:      "EURUSD",
		From:      from,
		To:        from.Add(48 * time.Hour),
		Timeframe: domrepo.TF1h,
	})
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", res.Pair)
	assert.Equal(t, "1h", res.Timeframe)
	assert.Equal(t, 48, res.Count)
	assert.Len(t, res.Points, 48)
}

func TestGetHistoryValidation(t *testing.T) {
	uc := NewHistoryUseCase(&fakeRateStore{})
	ctx := context.Background()
	now := time.Now()

	_, err := uc.GetHistory(ctx, GetHistoryParams{From: now, To: now})
	assert.Error(t, err, "pair required")

	_, err = uc.GetHistory(ctx, GetHistoryParams{Pair: "EURUSD", From: now, To: now.Add(-time.Hour)})
	assert.Error(t, err, "inverted range rejected")
}

func TestGetHistoryLimit(t *testing.T) {
	store := &fakeRateStore{
		series: map[string]*models.PriceSeries{
			"EURUSD": testSeries(t, "EURUSD", wavyRates(100, 1.10, 0.0002, 0.0005)),
		},
	}
	uc := NewHistoryUseCase(store)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Pair:      "EURUSD",
		From:      from,
		To:        from.Add(100 * time.Hour),
		Timeframe: domrepo.TF1h,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Count)
	assert.Len(t, res.Points, 10)
}

func TestGetHistoryStoreError(t *testing.T) {
	uc := NewHistoryUseCase(&fakeRateStore{})

	_, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Pair: "EURUSD",
		From: time.Now().Add(-time.Hour),
		To:   time.Now(),
	})
	assert.Error(t, err)
}
