package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
)

// HistoryUseCase provides business logic for retrieving stored rates.
type HistoryUseCase struct {
	store domrepo.RateStore
}

func NewHistoryUseCase(store domrepo.RateStore) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	Pair      string
	From      time.Time
	To        time.Time
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetHistoryResult struct {
	Pair      string
	Timeframe string
	From      time.Time
	To        time.Time
	Count     int
	Points    []models.PricePoint
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if p.Pair == "" {
		return nil, fmt.Errorf("pair required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	series, err := uc.store.GetSeries(ctx, p.Pair, p.From, p.To, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	points := series.Points
	if len(points) > p.Limit {
		points = points[:p.Limit]
	}

	return &GetHistoryResult{
		Pair:      p.Pair,
		Timeframe: string(p.Timeframe),
		From:      p.From,
		To:        p.To,
		Count:     len(points),
		Points:    points,
	}, nil
}
