package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts storage operations (find, update, delete, ...) by outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userapi_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)
	// OperationDuration is the time a storage operation spent on a worker.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "userapi_operation_duration_seconds",
			Help:    "Storage operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	// WorkersBusy is the number of pool workers currently running an operation.
	WorkersBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "userapi_workers_busy",
			Help: "Number of workers executing a storage operation",
		},
	)
)

// Status returns the status label for an operation result.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
