package ojapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records API call counts and latencies per endpoint.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the API collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ojcontest",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Judge API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ojcontest",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Judge API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome(err)).Inc()
	m.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "transport_error"
	}
}

// Instrumented is implemented by clients that report metrics and diagnostics.
type Instrumented interface {
	Instrument(m *Metrics, logger *slog.Logger)
}

// Instrument attaches m and logger to c when the client supports it.
func Instrument(c Client, m *Metrics, logger *slog.Logger) {
	if in, ok := c.(Instrumented); ok {
		in.Instrument(m, logger)
	}
}
