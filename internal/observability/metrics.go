// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ViewCounterEvents counts view-count jobs by outcome (applied, failed, dropped).
	ViewCounterEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_view_counter_events_total",
		Help: "View-count jobs by outcome",
	}, []string{"kind", "outcome"})

	// ViewCounterQueueDepth is the number of view-count jobs waiting for the worker.
	ViewCounterQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidtube_view_counter_queue_depth",
		Help: "Number of view-count jobs waiting to be applied",
	})

	// MediaUploads counts media uploads by kind and outcome.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_media_uploads_total",
		Help: "Media uploads by kind and outcome",
	}, []string{"kind", "outcome"})

	// MediaUploadLatency records media upload latency by storage driver.
	MediaUploadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_media_upload_latency_seconds",
		Help:    "Media upload latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"driver"})

	// CircuitBreakerState reports breaker state per name (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vidtube_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	// LikeToggles counts like toggles by subject type and resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_like_toggles_total",
		Help: "Like toggles by subject type and resulting state",
	}, []string{"subject_type", "liked"})

	// NotificationsPublished counts notifier publishes by event type and outcome.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_notifications_published_total",
		Help: "Notification publishes by event type and outcome",
	}, []string{"event_type", "outcome"})

	// WebSocketConnectionsTotal is the gauge of open notification streams.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidtube_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})
)
