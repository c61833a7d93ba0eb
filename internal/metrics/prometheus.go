package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder reports provider metrics using Prometheus primitives.
type PrometheusRecorder struct {
	calls     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	offline   *prometheus.CounterVec
}

// NewPrometheusRecorder registers the giftwise collectors on registry.
func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_provider_calls_total",
			Help: "Total number of LLM provider calls by outcome",
		}, []string{"provider", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "giftwise_provider_call_duration_seconds",
			Help:    "LLM provider call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"provider"}),
		offline: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftwise_offline_responses_total",
			Help: "Total number of requests answered from the offline catalog",
		}, []string{"provider"}),
	}

	for _, collector := range []prometheus.Collector{r.calls, r.durations, r.offline} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) ObserveProviderCall(provider string, outcome string, duration time.Duration) {
	r.calls.WithLabelValues(provider, outcome).Inc()
	r.durations.WithLabelValues(provider).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveOffline(provider string) {
	r.offline.WithLabelValues(provider).Inc()
}

// Handler exposes registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
