package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

func TestCentroidFallbackBeforeFit(t *testing.T) {
	c := NewCentroidClassifier(NewThresholdClassifier(1.3, 1.5, 0.3, 0.7))
	assert.Equal(t, models.Forecastable, c.Classify(fvec(1.1, 0.2, 0.1, 0.2, 0.05)))
	assert.Equal(t, models.NonForecastable, c.Classify(fvec(1.9, 0.2, 0.1, 0.2, 0.05)))
}

func TestCentroidFitErrors(t *testing.T) {
	c := NewCentroidClassifier(NewThresholdClassifier(1.3, 1.5, 0.3, 0.7))

	assert.Error(t, c.Fit(nil, nil))

	assert.Error(t, c.Fit(
		[]models.FeatureVector{fvec(1.1, 0.2, 0, 0, 0)},
		[]models.ForecastabilityLabel{models.Forecastable, models.NonForecastable},
	))

	incomplete := models.FeatureVector{models.FeatFractalDim: 1.1}
	assert.Error(t, c.Fit(
		[]models.FeatureVector{incomplete},
		[]models.ForecastabilityLabel{models.Forecastable},
	))
}

func TestCentroidClassifyAfterFit(t *testing.T) {
	c := NewCentroidClassifier(NewThresholdClassifier(1.3, 1.5, 0.3, 0.7))

	batch := []models.FeatureVector{
		fvec(1.1, 0.1, 0.2, 0.3, 0.05),
		fvec(1.15, 0.15, 0.25, 0.35, 0.06),
		fvec(1.9, 0.9, 0.1, 0.2, 0.30),
		fvec(1.85, 0.85, 0.15, 0.25, 0.28),
	}
	labels := []models.ForecastabilityLabel{
		models.Forecastable,
		models.Forecastable,
		models.NonForecastable,
		models.NonForecastable,
	}
	require.NoError(t, c.Fit(batch, labels))

	assert.Equal(t, models.Forecastable, c.Classify(fvec(1.12, 0.12, 0.22, 0.32, 0.055)))
	assert.Equal(t, models.NonForecastable, c.Classify(fvec(1.88, 0.88, 0.12, 0.22, 0.29)))
}

func TestCentroidRefitReplacesModel(t *testing.T) {
	c := NewCentroidClassifier(NewThresholdClassifier(1.3, 1.5, 0.3, 0.7))

	require.NoError(t, c.Fit(
		[]models.FeatureVector{fvec(1.1, 0.1, 0, 0, 0)},
		[]models.ForecastabilityLabel{models.Forecastable},
	))
	assert.Equal(t, models.Forecastable, c.Classify(fvec(1.1, 0.1, 0, 0, 0)))

	require.NoError(t, c.Fit(
		[]models.FeatureVector{fvec(1.1, 0.1, 0, 0, 0)},
		[]models.ForecastabilityLabel{models.PartiallyForecastable},
	))
	assert.Equal(t, models.PartiallyForecastable, c.Classify(fvec(1.1, 0.1, 0, 0, 0)))
}
