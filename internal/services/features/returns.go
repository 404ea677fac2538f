package features

import (
	"math"

	"github.com/Avina20/ForexVision/internal/domain/repository"
)

// ComputeLogReturns computes log returns r_t = ln(R_t / R_{t-1}).
// It returns a slice of length len(rates)-1, or nil if insufficient data.
func ComputeLogReturns(rates []float64) []float64 {
	if len(rates) < 2 {
		return nil
	}
	out := make([]float64, 0, len(rates)-1)
	for i := 1; i < len(rates); i++ {
		prev := rates[i-1]
		cur := rates[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes annualized realized volatility over a rolling
// window using the provided number of bars per year. Returns the latest
// window sigma.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// BarsPerYearForTF returns the approximate number of bars per year for a timeframe.
func BarsPerYearForTF(tf repository.Timeframe) float64 {
	switch tf {
	case repository.TF1h:
		return 365 * 24
	case repository.TF4h:
		return 365 * 6
	case repository.TF1d:
		return 365
	default:
		return 365 * 24
	}
}
