package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EvaluationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forexvision",
			Subsystem: "evaluation",
			Name:      "latency_seconds",
			Help:      "Latency of evaluation endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EvaluationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forexvision",
			Subsystem: "evaluation",
			Name:      "errors_total",
			Help:      "Errors by evaluation endpoint",
		},
		[]string{"endpoint"},
	)

	PairLabels = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "forexvision",
			Subsystem: "evaluation",
			Name:      "pair_label",
			Help:      "Latest forecastability label per pair (0 non, 1 partial, 2 forecastable)",
		},
		[]string{"pair"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EvaluationLatency, EvaluationErrors, PairLabels)
	})
}
