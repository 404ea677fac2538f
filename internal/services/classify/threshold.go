package classify

import (
	domsvc "github.com/Avina20/ForexVision/internal/domain/service"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// ThresholdClassifier is the rule-based variant: documented cut points on
// fractal dimension and volatility-band ratio. Deterministic and stateless.
type ThresholdClassifier struct {
	fdForecastable    float64
	fdNonForecastable float64
	bandForecastable  float64
	bandUnstable      float64
}

func NewThresholdClassifier(fdForecastable, fdNonForecastable, bandForecastable, bandUnstable float64) *ThresholdClassifier {
	return &ThresholdClassifier{
		fdForecastable:    fdForecastable,
		fdNonForecastable: fdNonForecastable,
		bandForecastable:  bandForecastable,
		bandUnstable:      bandUnstable,
	}
}

// Classify applies the cut points:
//   - fd above the non-forecastable cutoff, or a band ratio past the
//     unstable cutoff, reads as noise
//   - fd below the forecastable cutoff with a tight band reads as trending
//   - everything in between is partially forecastable
func (c *ThresholdClassifier) Classify(fv models.FeatureVector) models.ForecastabilityLabel {
	fd := fv[models.FeatFractalDim]
	band := fv[models.FeatBandRatio]

	if fd > c.fdNonForecastable || band > c.bandUnstable {
		return models.NonForecastable
	}
	if fd < c.fdForecastable && band < c.bandForecastable {
		return models.Forecastable
	}
	return models.PartiallyForecastable
}

var _ domsvc.ForecastabilityClassifier = (*ThresholdClassifier)(nil)
