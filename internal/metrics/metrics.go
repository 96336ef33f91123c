// Package metrics exposes Prometheus collectors for remote calls made to the
// object store and face service, and for batch collection loads.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "face_orchestrator"

var (
	// remoteCallsTotal counts remote calls by service, operation and outcome.
	remoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Total number of calls to external services",
		},
		[]string{"service", "operation", "outcome"},
	)

	// batchItemsTotal counts items handled by the batch collection loader.
	batchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "items_total",
			Help:      "Total number of bucket objects handled by batch loads",
		},
		[]string{"outcome"},
	)

	// batchDurationSeconds tracks how long a whole batch load takes.
	batchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Duration of batch collection loads",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"outcome"},
	)

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		remoteCallsTotal,
		batchItemsTotal,
		batchDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// ObserveRemoteCall records the result of one call to an external service.
func ObserveRemoteCall(service, operation string, err error) {
	remoteCallsTotal.WithLabelValues(service, operation, outcome(err)).Inc()
}

// ObserveBatchItem records one indexed (or failed) batch item.
func ObserveBatchItem(err error) {
	batchItemsTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveBatch records the duration of a finished batch load.
func ObserveBatch(started time.Time, err error) {
	batchDurationSeconds.WithLabelValues(outcome(err)).Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
