package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	results  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eco_shop_recommendations_total",
				Help: "Recommendation computations by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eco_shop_recommendation_duration_seconds",
			Help:    "Time spent loading inputs and ranking recommendations",
			Buckets: prometheus.DefBuckets,
		}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eco_shop_recommendation_results",
			Help:    "Number of products returned per recommendation",
			Buckets: []float64{0, 1, 2, 5, 10},
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.results)
	return m
}

func (m *Metrics) observe(start time.Time, outcome string, n int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		m.results.Observe(float64(n))
	}
}
