package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

func fvec(fd, band, corrMean, corrMax, sigma float64) models.FeatureVector {
	return models.FeatureVector{
		models.FeatFractalDim: fd,
		models.FeatBandRatio:  band,
		models.FeatCorrMean:   corrMean,
		models.FeatCorrMax:    corrMax,
		models.FeatSigma:      sigma,
	}
}

func TestThresholdClassify(t *testing.T) {
	c := NewThresholdClassifier(1.3, 1.5, 0.3, 0.7)

	cases := []struct {
		name string
		fd   float64
		band float64
		want models.ForecastabilityLabel
	}{
		{"low fd tight band", 1.1, 0.2, models.Forecastable},
		{"high fd", 1.8, 0.2, models.NonForecastable},
		{"wide band", 1.1, 0.8, models.NonForecastable},
		{"middle fd", 1.4, 0.2, models.PartiallyForecastable},
		{"middle band", 1.1, 0.5, models.PartiallyForecastable},
		{"both middle", 1.4, 0.5, models.PartiallyForecastable},
		{"on forecastable cutoffs", 1.3, 0.3, models.PartiallyForecastable},
		{"on upper cutoffs", 1.5, 0.7, models.PartiallyForecastable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(fvec(tc.fd, tc.band, 0.1, 0.2, 0.05)))
		})
	}
}

func TestThresholdClassifyDeterministic(t *testing.T) {
	c := NewThresholdClassifier(1.3, 1.5, 0.3, 0.7)
	fv := fvec(1.25, 0.25, 0.4, 0.6, 0.1)
	first := c.Classify(fv)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(fv))
	}
}
