package models

// Feature keys are a fixed set; the schema never drifts across windows.
const (
	FeatBandRatio  = "band_ratio"  // price deviation / Keltner half-width
	FeatFractalDim = "fractal_dim" // Higuchi estimate, ~[1,2]
	FeatCorrMean   = "corr_mean"   // mean correlation vs reference pairs
	FeatCorrMax    = "corr_max"    // max correlation vs reference pairs
	FeatSigma      = "sigma"       // realized volatility over the window
)

// FeatureVector maps feature name to value for one pair window.
type FeatureVector map[string]float64

// FeatureKeys returns the fixed schema in stable order.
func FeatureKeys() []string {
	return []string{FeatBandRatio, FeatFractalDim, FeatCorrMean, FeatCorrMax, FeatSigma}
}

// Complete reports whether every schema key is present.
func (fv FeatureVector) Complete() bool {
	for _, k := range FeatureKeys() {
		if _, ok := fv[k]; !ok {
			return false
		}
	}
	return true
}

// ForecastabilityLabel is the three-way classification outcome.
type ForecastabilityLabel int

const (
	NonForecastable ForecastabilityLabel = iota
	PartiallyForecastable
	Forecastable
)

func (l ForecastabilityLabel) String() string {
	switch l {
	case Forecastable:
		return "forecastable"
	case PartiallyForecastable:
		return "partially_forecastable"
	default:
		return "non_forecastable"
	}
}
