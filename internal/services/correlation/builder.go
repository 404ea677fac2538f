package correlation

import (
	"math"

	"github.com/Avina20/ForexVision/internal/domain/models"
	"github.com/Avina20/ForexVision/internal/services/features"
)

// Builder computes a pairwise Pearson correlation matrix over aligned
// return series. Pure computation; every Build returns a fresh matrix.
type Builder struct {
	minSamples int
}

func NewBuilder(minSamples int) *Builder {
	return &Builder{minSamples: minSamples}
}

// Build computes the matrix for the given window. All series are expected
// on the same timestamp grid; resampling is the ingestion side's job.
// Fails with InsufficientDataError when any series has fewer aligned
// samples than the configured minimum.
func (b *Builder) Build(series map[string]*models.PriceSeries) (*models.CorrelationMatrix, error) {
	pairs := make([]string, 0, len(series))
	returns := make(map[string][]float64, len(series))
	for pair, s := range series {
		rets := features.ComputeLogReturns(s.Rates())
		if len(rets) < b.minSamples {
			return nil, models.NewInsufficientData("correlation "+pair, b.minSamples, len(rets))
		}
		pairs = append(pairs, pair)
		returns[pair] = rets
	}

	m := models.NewCorrelationMatrix(pairs)
	ordered := m.Pairs()
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, bb := ordered[i], ordered[j]
			m.Set(a, bb, pearson(returns[a], returns[bb]))
		}
	}
	return m, nil
}

// pearson computes the correlation coefficient over the common trailing
// length of x and y.
func pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return 0
	}
	x = x[len(x)-n:]
	y = y[len(y)-n:]

	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sy += y[i]
	}
	mx := sx / float64(n)
	my := sy / float64(n)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	r := cov / math.Sqrt(vx*vy)
	// guard against floating point spill past [-1,1]
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}
