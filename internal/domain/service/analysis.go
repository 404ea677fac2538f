package service

import (
	"context"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// ForecastabilityClassifier maps a feature vector to one of the three
// labels. Implementations are pure: identical input, identical label,
// never "unknown".
type ForecastabilityClassifier interface {
	Classify(fv models.FeatureVector) models.ForecastabilityLabel
}

// TrainableClassifier is a classifier that learns its decision function
// from labeled feature vectors.
type TrainableClassifier interface {
	ForecastabilityClassifier
	Fit(batch []models.FeatureVector, labels []models.ForecastabilityLabel) error
}

// PricePredictor produces a directional forecast for a pair window.
// Predict before Fit fails with NotFittedError. Fitting is walk-forward:
// only data up to the evaluation point is ever passed in.
type PricePredictor interface {
	Fit(ctx context.Context, history *models.PriceSeries) error
	Predict(ctx context.Context, window *models.PriceSeries) (models.Forecast, error)
}
