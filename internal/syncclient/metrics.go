package syncclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records outbound sync calls. A nil *Metrics records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_requests_total",
				Help: "Outbound calls to the external audit-management API by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_request_duration_seconds",
			Help:    "Latency of outbound calls to the external audit-management API.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if err := reg.Register(m.calls); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
