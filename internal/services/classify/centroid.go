package classify

import (
	"fmt"
	"math"
	"sync"

	domsvc "github.com/Avina20/ForexVision/internal/domain/service"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// CentroidClassifier is the learned variant: Fit computes a per-label
// centroid over the fixed feature schema, Classify picks the nearest one.
// Until fitted it delegates to the fallback so a label is always produced.
type CentroidClassifier struct {
	mu        sync.RWMutex
	centroids map[models.ForecastabilityLabel][]float64
	fallback  domsvc.ForecastabilityClassifier
}

func NewCentroidClassifier(fallback domsvc.ForecastabilityClassifier) *CentroidClassifier {
	return &CentroidClassifier{fallback: fallback}
}

// Fit learns one centroid per label present in the batch.
func (c *CentroidClassifier) Fit(batch []models.FeatureVector, labels []models.ForecastabilityLabel) error {
	if len(batch) == 0 {
		return fmt.Errorf("centroid fit: empty batch")
	}
	if len(batch) != len(labels) {
		return fmt.Errorf("centroid fit: %d vectors, %d labels", len(batch), len(labels))
	}
	keys := models.FeatureKeys()
	sums := make(map[models.ForecastabilityLabel][]float64)
	counts := make(map[models.ForecastabilityLabel]int)
	for i, fv := range batch {
		if !fv.Complete() {
			return fmt.Errorf("centroid fit: incomplete feature vector at index %d", i)
		}
		l := labels[i]
		if sums[l] == nil {
			sums[l] = make([]float64, len(keys))
		}
		for k, key := range keys {
			sums[l][k] += fv[key]
		}
		counts[l]++
	}
	centroids := make(map[models.ForecastabilityLabel][]float64, len(sums))
	for l, sum := range sums {
		cen := make([]float64, len(keys))
		for k := range sum {
			cen[k] = sum[k] / float64(counts[l])
		}
		centroids[l] = cen
	}

	c.mu.Lock()
	c.centroids = centroids
	c.mu.Unlock()
	return nil
}

// Classify returns the label of the nearest centroid, or the fallback's
// answer before any fit.
func (c *CentroidClassifier) Classify(fv models.FeatureVector) models.ForecastabilityLabel {
	c.mu.RLock()
	centroids := c.centroids
	c.mu.RUnlock()

	if len(centroids) == 0 {
		return c.fallback.Classify(fv)
	}

	keys := models.FeatureKeys()
	best := models.NonForecastable
	bestDist := math.Inf(1)
	// iterate labels in fixed order so ties break deterministically
	for _, l := range []models.ForecastabilityLabel{models.NonForecastable, models.PartiallyForecastable, models.Forecastable} {
		cen, ok := centroids[l]
		if !ok {
			continue
		}
		var d float64
		for k, key := range keys {
			diff := fv[key] - cen[k]
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = l
		}
	}
	return best
}

var _ domsvc.TrainableClassifier = (*CentroidClassifier)(nil)
