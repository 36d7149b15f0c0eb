// Package metrics exposes Prometheus collectors for the remote gateway and
// the notification surface.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type collectors struct {
	requestsTotal   *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	invalidations   prometheus.Counter
	notices         *prometheus.CounterVec
	droppedOffScope *prometheus.CounterVec
}

var singleton = sync.OnceValue(func() *collectors {
	return &collectors{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beneficiary_admin",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Remote API calls by operation and HTTP status (0 for transport errors).",
		}, []string{"op", "status"}),
		requestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beneficiary_admin",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote API calls.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"op"}),
		invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "beneficiary_admin",
			Subsystem: "session",
			Name:      "invalidations_total",
			Help:      "Times the remote API rejected the session token.",
		}),
		notices: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beneficiary_admin",
			Subsystem: "ui",
			Name:      "notices_total",
			Help:      "Notifications shown to the operator by level.",
		}, []string{"level"}),
		droppedOffScope: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beneficiary_admin",
			Subsystem: "ui",
			Name:      "dropped_out_of_scope_total",
			Help:      "Entities a scoped list discarded because they belong to another owner.",
		}, []string{"list"}),
	}
})

// ObserveRequest records one remote call. status is 0 when no response
// arrived.
func ObserveRequest(op string, status int, took time.Duration) {
	m := singleton()
	m.requestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(op).Observe(took.Seconds())
}

func SessionInvalidated() { singleton().invalidations.Inc() }

func Notice(level string) { singleton().notices.WithLabelValues(level).Inc() }

func DroppedOutOfScope(list string) { singleton().droppedOffScope.WithLabelValues(list).Inc() }

// RequestCounter returns the counter for op and status, for tests.
func RequestCounter(op string, status int) prometheus.Counter {
	return singleton().requestsTotal.WithLabelValues(op, strconv.Itoa(status))
}

// InvalidationCounter returns the session invalidation counter, for tests.
func InvalidationCounter() prometheus.Counter { return singleton().invalidations }
