package features

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"

	"github.com/Avina20/ForexVision/internal/domain/models"
	"github.com/Avina20/ForexVision/internal/domain/repository"
)

// Extractor computes the fixed FeatureVector schema from a price series
// window plus the pair's correlation matrix row. Pure computation; a new
// vector is produced per call.
type Extractor struct {
	window      int
	emaPeriod   int
	atrPeriod   int
	multiplier  float64
	fractalKmax int
	timeframe   repository.Timeframe
}

func NewExtractor(window, emaPeriod, atrPeriod int, multiplier float64, fractalKmax int, tf repository.Timeframe) *Extractor {
	return &Extractor{
		window:      window,
		emaPeriod:   emaPeriod,
		atrPeriod:   atrPeriod,
		multiplier:  multiplier,
		fractalKmax: fractalKmax,
		timeframe:   tf,
	}
}

// MinLen returns the shortest window Extract accepts. The fractal
// estimator needs the longest run-up.
func (e *Extractor) MinLen() int {
	min := e.window
	if m := 2 * e.fractalKmax; m > min {
		min = m
	}
	if m := e.emaPeriod + 1; m > min {
		min = m
	}
	if m := e.atrPeriod + 1; m > min {
		min = m
	}
	return min
}

// Extract computes the feature vector for one pair window.
func (e *Extractor) Extract(series *models.PriceSeries, corrRow map[string]float64) (models.FeatureVector, error) {
	if series.Len() < e.MinLen() {
		return nil, models.NewInsufficientData("feature extraction", e.MinLen(), series.Len())
	}

	rates := series.Rates()
	if len(rates) > e.window {
		rates = rates[len(rates)-e.window:]
	}

	bandRatio := e.bandRatio(rates)

	fd, err := HiguchiFD(rates, e.fractalKmax)
	if err != nil {
		return nil, err
	}

	rets := ComputeLogReturns(rates)
	sigma := RealizedVolatility(rets, len(rets), BarsPerYearForTF(e.timeframe))

	corrMean, corrMax := aggregateCorrelation(corrRow)

	return models.FeatureVector{
		models.FeatBandRatio:  bandRatio,
		models.FeatFractalDim: fd,
		models.FeatCorrMean:   corrMean,
		models.FeatCorrMax:    corrMax,
		models.FeatSigma:      sigma,
	}, nil
}

// bandRatio reports where the last rate sits inside a Keltner-style
// channel: |rate - EMA| / (multiplier * ATR). Values above 1 mean the
// rate has escaped the band.
func (e *Extractor) bandRatio(rates []float64) float64 {
	ema := trend.NewEmaWithPeriod[float64](e.emaPeriod)
	emaVals := helper.ChanToSlice(ema.Compute(helper.SliceToChan(rates)))
	if len(emaVals) == 0 {
		return 0
	}
	center := emaVals[len(emaVals)-1]

	// FX rates carry no high/low; feeding the close three times reduces
	// true range to |close - prev close|, which the ATR then smooths.
	atr := volatility.NewAtr[float64]()
	atrVals := helper.ChanToSlice(atr.Compute(
		helper.SliceToChan(rates),
		helper.SliceToChan(rates),
		helper.SliceToChan(rates),
	))
	if len(atrVals) == 0 {
		return 0
	}
	tail := atrVals
	if len(tail) > e.atrPeriod {
		tail = tail[len(tail)-e.atrPeriod:]
	}
	var avg float64
	for _, v := range tail {
		avg += v
	}
	avg /= float64(len(tail))

	halfWidth := e.multiplier * avg
	if halfWidth <= 0 {
		return 0
	}
	return math.Abs(rates[len(rates)-1]-center) / halfWidth
}

func aggregateCorrelation(corrRow map[string]float64) (mean, max float64) {
	if len(corrRow) == 0 {
		return 0, 0
	}
	max = math.Inf(-1)
	for _, v := range corrRow {
		a := math.Abs(v)
		mean += a
		if a > max {
			max = a
		}
	}
	mean /= float64(len(corrRow))
	return mean, max
}
