package strategy

import (
	"github.com/Avina20/ForexVision/internal/domain/models"
)

// Engine converts a forecastability label and a forecast into a position.
// Pure function of its inputs and configuration.
type Engine struct {
	thresholdForecastable float64
	thresholdPartial      float64
	trendFactor           float64
}

func NewEngine(thresholdForecastable, thresholdPartial, trendFactor float64) *Engine {
	return &Engine{
		thresholdForecastable: thresholdForecastable,
		thresholdPartial:      thresholdPartial,
		trendFactor:           trendFactor,
	}
}

// Decide applies the decision rules:
//  1. NonForecastable is always Flat, whatever the forecast says.
//  2. Forecast magnitude under the active threshold is Flat.
//  3. PartiallyForecastable uses the stricter partial threshold.
//  4. Otherwise the forecast sign picks Long or Short.
//  5. A confirmed short-term trend (trendSign != 0) lowers the effective
//     threshold when it agrees with the forecast sign and raises it when
//     it disagrees.
func (e *Engine) Decide(label models.ForecastabilityLabel, f models.Forecast, trendSign int) models.TradeDecision {
	d := models.TradeDecision{
		Pair:      f.Pair,
		Timestamp: f.Timestamp,
		Action:    models.Flat,
		Label:     label,
		Forecast:  f.Direction,
	}

	if label == models.NonForecastable {
		return d
	}

	base := e.thresholdForecastable
	if label == models.PartiallyForecastable {
		base = e.thresholdPartial
	}

	sign := 0
	if f.Direction > 0 {
		sign = 1
	} else if f.Direction < 0 {
		sign = -1
	}

	threshold := base
	if trendSign != 0 && sign != 0 {
		if trendSign == sign {
			threshold = base * (1 - e.trendFactor)
		} else {
			threshold = base * (1 + e.trendFactor)
		}
	}
	d.Threshold = threshold

	if sign == 0 || f.Magnitude < threshold {
		return d
	}
	if sign > 0 {
		d.Action = models.Long
	} else {
		d.Action = models.Short
	}
	return d
}
