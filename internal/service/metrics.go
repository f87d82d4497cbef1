package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes service activity as Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	scoreEvents     *prometheus.CounterVec
	sideChannelFail *prometheus.CounterVec
	performance     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaizen",
			Name:      "use_case_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		useCaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kaizen",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"use_case"}),
		scoreEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaizen",
			Name:      "score_events_total",
			Help:      "Scored actions applied to the performance ledger.",
		}, []string{"category", "action"}),
		sideChannelFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaizen",
			Name:      "score_event_failures_total",
			Help:      "Scored actions dropped after retries.",
		}, []string{"category", "action"}),
		performance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kaizen",
			Name:      "performance",
			Help:      "Current running performance total.",
		}),
	}
	for _, c := range []prometheus.Collector{m.useCases, m.useCaseDuration, m.scoreEvents, m.sideChannelFail, m.performance} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveUseCase lets Metrics act as a UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	if m == nil {
		return
	}
	m.useCases.WithLabelValues(event.Name, outcome(event.Err)).Inc()
	m.useCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

func (m *Metrics) scoreRecorded(a scoring.Action, performance int) {
	if m == nil {
		return
	}
	m.scoreEvents.WithLabelValues(a.Category(), a.Name()).Inc()
	m.performance.Set(float64(performance))
}

func (m *Metrics) scoreDropped(a scoring.Action) {
	if m == nil {
		return
	}
	m.sideChannelFail.WithLabelValues(a.Category(), a.Name()).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return domain.Kind(err)
	default:
		return "error"
	}
}
