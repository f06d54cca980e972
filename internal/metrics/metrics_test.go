package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTransaction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordTransaction(ResultApplied, time.Millisecond)
	m.RecordTransaction(ResultApplied, 2*time.Millisecond)
	m.RecordTransaction(ResultDropped, time.Second)

	if v := testutil.ToFloat64(m.TransactionsTotal.WithLabelValues(ResultApplied)); v != 2 {
		t.Errorf("applied = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.TransactionsTotal.WithLabelValues(ResultDropped)); v != 1 {
		t.Errorf("dropped = %v, want 1", v)
	}
	if n := testutil.CollectAndCount(m.ApplyDuration); n != 1 {
		t.Errorf("expected one histogram, got %d", n)
	}
}

func TestQueueDepthAndHandlerErrors(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetQueueDepth(3)
	if v := testutil.ToFloat64(m.QueueDepth); v != 3 {
		t.Errorf("queue depth = %v, want 3", v)
	}

	m.RecordHandlerError("insert-text")
	m.RecordHandlerError("insert-text")
	if v := testutil.ToFloat64(m.HandlerErrorsTotal.WithLabelValues("insert-text")); v != 2 {
		t.Errorf("handler errors = %v, want 2", v)
	}
}

func TestRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordTransaction(ResultApplied, 0)
	m.RecordHandlerError("h")

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"proseline_transactions_total",
		"proseline_apply_duration_seconds",
		"proseline_queue_depth",
		"proseline_handler_errors_total",
	} {
		if !names[want] {
			t.Errorf("%s not registered", want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordTransaction(ResultApplied, time.Second)
	m.SetQueueDepth(1)
	m.RecordHandlerError("h")
}
