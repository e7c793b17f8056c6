package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records counters for core mutations and snapshot persistence.
type POSMetrics struct {
	mutations       *prometheus.CounterVec
	snapshotSuccess *prometheus.CounterVec
	snapshotFailure *prometheus.CounterVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_mutations_total",
		Help: "Core state mutations applied, by operation.",
	}, []string{"operation"})
	snapshotSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_snapshot_writes_total",
		Help: "Snapshot records successfully persisted.",
	}, []string{"snapshot"})
	snapshotFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_snapshot_failures_total",
		Help: "Snapshot persistence attempts that failed.",
	}, []string{"snapshot"})
	reg.MustRegister(mutations, snapshotSuccess, snapshotFailure)
	return &POSMetrics{
		mutations:       mutations,
		snapshotSuccess: snapshotSuccess,
		snapshotFailure: snapshotFailure,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (m *POSMetrics) IncMutation(operation string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncSnapshotWrite increments the success counter for the named snapshot.
func (m *POSMetrics) IncSnapshotWrite(name string) {
	if m == nil || m.snapshotSuccess == nil {
		return
	}
	m.snapshotSuccess.WithLabelValues(normalizeLabel(name)).Inc()
}

// IncSnapshotFailure increments the failure counter for the named snapshot.
func (m *POSMetrics) IncSnapshotFailure(name string) {
	if m == nil || m.snapshotFailure == nil {
		return
	}
	m.snapshotFailure.WithLabelValues(normalizeLabel(name)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
