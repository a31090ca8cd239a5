package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RelayMetrics records relay pass outcomes.
type RelayMetrics struct {
	duration  prometheus.Histogram
	passes    *prometheus.CounterVec
	delivered *prometheus.CounterVec
}

// NewRelayMetrics registers the relay metrics on the provided registerer.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		return &RelayMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "relay_pass_duration_seconds",
		Help:    "Duration of relay passes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	passes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_passes_total",
		Help: "Relay passes by outcome.",
	}, []string{"outcome"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_notifications_total",
		Help: "Notifications handled by the relay, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, passes, delivered)
	return &RelayMetrics{
		duration:  duration,
		passes:    passes,
		delivered: delivered,
	}
}

// ObservePass records one relay pass.
func (m *RelayMetrics) ObservePass(d time.Duration, published, failed int, err error) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.passes.WithLabelValues(outcome).Inc()
	if published > 0 {
		m.delivered.WithLabelValues("published").Add(float64(published))
	}
	if failed > 0 {
		m.delivered.WithLabelValues("failed").Add(float64(failed))
	}
}

// Handler exposes the gatherer on /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
