package models

import "time"

// Forecast is a directional prediction for the next period of one pair.
// Valid only when the pair's label is not NonForecastable.
type Forecast struct {
	Pair       string
	Timestamp  time.Time
	Direction  float64 // signed expected return; sign is the call
	Magnitude  float64 // |Direction|
	Confidence float64 // [0,1]
}

// Action is the position taken for a window.
type Action int

const (
	Flat Action = iota
	Long
	Short
)

func (a Action) String() string {
	switch a {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// TradeDecision is the strategy output for one pair and window.
type TradeDecision struct {
	Pair      string
	Timestamp time.Time
	Action    Action
	Label     ForecastabilityLabel
	Forecast  float64 // signed forecast the decision was based on
	Threshold float64 // effective threshold after trend adjustment
}

// PairResult is the full evaluation outcome for one pair in a cycle.
type PairResult struct {
	Pair     string
	Label    ForecastabilityLabel
	Features FeatureVector
	Forecast *Forecast // nil when label is NonForecastable
	Decision TradeDecision
}

// PairError records an isolated per-pair failure inside a cycle.
type PairError struct {
	Pair string
	Err  string
}

// EvaluationReport is the partial result set for one evaluation cycle.
type EvaluationReport struct {
	Timestamp    time.Time
	Window       int
	Results      []PairResult
	Failures     []PairError
	Correlations *CorrelationMatrix
}
