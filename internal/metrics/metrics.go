// Package metrics holds the prometheus collectors for the view controller.
//
// All methods are safe on a nil *Metrics, so components can take one
// optionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "proseline"

// Transaction results.
const (
	ResultApplied = "applied"
	ResultDropped = "dropped"
)

// Metrics counts controller activity.
type Metrics struct {
	// TransactionsTotal counts flushed transactions.
	// Labels: result (applied, dropped)
	TransactionsTotal *prometheus.CounterVec

	// ApplyDuration measures apply plus view resync per transaction.
	ApplyDuration prometheus.Histogram

	// QueueDepth is the number of dispatched transactions waiting to flush.
	QueueDepth prometheus.Gauge

	// HandlerErrorsTotal counts handler errors and panics.
	// Labels: handler
	HandlerErrorsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Transactions flushed by the view controller, by result.",
			},
			[]string{"result"},
		),
		ApplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Time to apply a transaction and resynchronize the view.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Transactions waiting to be flushed.",
		}),
		HandlerErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_errors_total",
				Help:      "Handler invocations that failed or panicked.",
			},
			[]string{"handler"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.TransactionsTotal, m.ApplyDuration, m.QueueDepth, m.HandlerErrorsTotal)
	}
	return m
}

// RecordTransaction counts a flushed transaction. Only applied
// transactions are timed.
func (m *Metrics) RecordTransaction(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.TransactionsTotal.WithLabelValues(result).Inc()
	if result == ResultApplied {
		m.ApplyDuration.Observe(d.Seconds())
	}
}

// SetQueueDepth reports the pending transaction count.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// RecordHandlerError counts a failed handler invocation.
func (m *Metrics) RecordHandlerError(handler string) {
	if m == nil {
		return
	}
	m.HandlerErrorsTotal.WithLabelValues(handler).Inc()
}
