package features

import (
	"math"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

// HiguchiFD estimates the fractal dimension of a series with Higuchi's
// method over stride lengths k = 1..kmax. The estimate sits near 1 for
// smooth/trending series and near 2 for noise-like series.
func HiguchiFD(series []float64, kmax int) (float64, error) {
	n := len(series)
	if kmax < 2 {
		kmax = 2
	}
	if n < 2*kmax {
		return 0, models.NewInsufficientData("fractal dimension", 2*kmax, n)
	}

	// curve length L(k) averaged over the k phase-shifted subseries
	logInvK := make([]float64, 0, kmax)
	logL := make([]float64, 0, kmax)
	for k := 1; k <= kmax; k++ {
		var lk float64
		var contributing int
		for m := 0; m < k; m++ {
			cnt := (n - m - 1) / k
			if cnt < 1 {
				continue
			}
			var lm float64
			for i := 1; i <= cnt; i++ {
				lm += math.Abs(series[m+i*k] - series[m+(i-1)*k])
			}
			// Higuchi normalization
			lm = lm * float64(n-1) / (float64(cnt) * float64(k) * float64(k))
			lk += lm
			contributing++
		}
		if contributing == 0 {
			continue
		}
		lk /= float64(contributing)
		if lk <= 0 {
			continue
		}
		logInvK = append(logInvK, math.Log(1/float64(k)))
		logL = append(logL, math.Log(lk))
	}
	if len(logL) < 2 {
		// flat series: every curve length is zero
		return 1, nil
	}

	// slope of ln L(k) against ln(1/k) is the dimension estimate
	var sx, sy float64
	for i := range logL {
		sx += logInvK[i]
		sy += logL[i]
	}
	mx := sx / float64(len(logL))
	my := sy / float64(len(logL))
	var num, den float64
	for i := range logL {
		dx := logInvK[i] - mx
		num += dx * (logL[i] - my)
		den += dx * dx
	}
	if den == 0 {
		return 1, nil
	}
	return num / den, nil
}
