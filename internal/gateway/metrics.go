package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	ThrottleWaits    prometheus.Counter
	WindowsExhausted prometheus.Counter
	RetriesSlept     prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		ThrottleWaits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moodmix_gateway_throttle_waits_total",
			Help: "The total number of calls delayed by endpoint spacing",
		}),
		WindowsExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moodmix_gateway_windows_exhausted_total",
			Help: "The total number of request-window cooldowns taken",
		}),
		RetriesSlept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moodmix_gateway_retries_total",
			Help: "The total number of governed retries after 429 responses",
		}),
	}
}
