// Package metrics provides Prometheus collectors for store operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics instruments store operations. All methods are safe on a nil
// receiver so the store can run unmetered.
type StoreMetrics struct {
	operations   *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	bytesWritten prometheus.Counter
	bytesRead    prometheus.Counter
}

// NewStoreMetrics builds the store collectors and registers them on reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardstore",
			Name:      "operations_total",
			Help:      "Completed store operations by name and outcome.",
		}, []string{"op", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shardstore",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shardstore",
			Name:      "bytes_written_total",
			Help:      "Bytes copied into storage by save.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shardstore",
			Name:      "bytes_read_total",
			Help:      "Bytes streamed out of storage by retrieve.",
		}),
	}
	reg.MustRegister(m.operations, m.durations, m.bytesWritten, m.bytesRead)
	return m
}

// ObserveOp records one completed operation and its latency.
func (m *StoreMetrics) ObserveOp(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.durations.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddBytesWritten accounts bytes persisted by a save.
func (m *StoreMetrics) AddBytesWritten(n int64) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}

// AddBytesRead accounts bytes streamed out by a retrieve.
func (m *StoreMetrics) AddBytesRead(n int64) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
}
