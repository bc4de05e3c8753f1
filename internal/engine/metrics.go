package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine
type Metrics struct {
	ClassificationsByTier *prometheus.CounterVec
	CacheHits             prometheus.Counter
	PhaseFills            *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		ClassificationsByTier: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moodmix_engine_classifications_total",
			Help: "The total number of classifications resolved, by signal tier",
		}, []string{"tier"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moodmix_engine_mood_cache_hits_total",
			Help: "The total number of classifications served from the mood cache",
		}),
		PhaseFills: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moodmix_engine_pool_fills_total",
			Help: "The total number of tracks pooled, by aggregation phase",
		}, []string{"phase"}),
	}
}
