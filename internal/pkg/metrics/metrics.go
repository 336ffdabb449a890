// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "petnfc"

var (
	GeoSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_searches_total",
		Help:      "Prefix searches against the geo indexes.",
	}, []string{"kind", "outcome"})

	OTPEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_events_total",
		Help:      "OTP issue, verify and reset operations.",
	}, []string{"event", "result"})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Notifications persisted.",
	})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_deliveries_total",
		Help:      "Realtime pushes by result.",
	}, []string{"result"})

	TaskFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "background_task_failures_total",
		Help:      "Fire-and-forget tasks that returned an error or panicked.",
	}, []string{"task"})

	LiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Open notification websocket connections.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
