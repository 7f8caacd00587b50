package bconduit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request outcomes with Prometheus. A nil *Metrics records nothing.
type Metrics struct {
	// HandledTotal counts requests by terminal stage: the handler outcome, then sent once the
	// response is handed to the transport.
	HandledTotal *prometheus.CounterVec
	// FallbackTotal counts fallback responses by failure kind.
	FallbackTotal *prometheus.CounterVec
	// InStage tracks requests currently in a non-terminal stage.
	InStage *prometheus.GaugeVec
	// Duration records the time from dispatch until the response is available.
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HandledTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bconduit_handled_total",
				Help: "Requests reaching a terminal stage",
			},
			[]string{"stage"},
		),
		FallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bconduit_fallback_responses_total",
				Help: "Internal Server Error fallbacks by failure kind",
			},
			[]string{"kind"},
		),
		InStage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bconduit_requests_in_stage",
				Help: "Requests currently in a non-terminal stage",
			},
			[]string{"stage"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bconduit_request_duration_seconds",
				Help:    "Time from dispatch until the response is available",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(m.HandledTotal, m.FallbackTotal, m.InStage, m.Duration)
	return m
}

func (m *Metrics) enter(s Stage) {
	if m != nil {
		m.InStage.WithLabelValues(s.String()).Inc()
	}
}

func (m *Metrics) leave(s Stage) {
	if m != nil {
		m.InStage.WithLabelValues(s.String()).Dec()
	}
}

func (m *Metrics) handled(s Stage) {
	if m != nil {
		m.HandledTotal.WithLabelValues(s.String()).Inc()
	}
}

func (m *Metrics) fallback(k Kind) {
	if m != nil {
		m.FallbackTotal.WithLabelValues(k.String()).Inc()
	}
}

func (m *Metrics) sent() {
	m.handled(StageSent)
}

func (m *Metrics) observe(d time.Duration) {
	if m != nil {
		m.Duration.Observe(d.Seconds())
	}
}
