// Package telemetry holds the prometheus collectors shared by the server,
// the store and the insight client.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestCount counts HTTP requests by route and status.
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidex_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "guidex_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// StoreErrors counts failed store operations by collection and operation.
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidex_store_errors_total",
			Help: "Total failed store operations",
		},
		[]string{"kind", "op"},
	)

	// InsightFallbacks counts insight calls that returned a fallback value.
	InsightFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidex_insight_fallbacks_total",
			Help: "Total insight calls answered with a fallback",
		},
		[]string{"op"},
	)

	// TaskToggles counts optimistic task toggles by outcome (applied, reverted).
	TaskToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidex_task_toggles_total",
			Help: "Total milestone toggles",
		},
		[]string{"result"},
	)

	FocusSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidex_focus_sessions_total",
			Help: "Focus timer transitions",
		},
		[]string{"event"},
	)
)

// Collectors returns every collector defined by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestCount,
		RequestDuration,
		StoreErrors,
		InsightFallbacks,
		TaskToggles,
		FocusSessions,
	}
}

var defaultOnce sync.Once

// InitMetrics registers the collectors with reg. A nil reg means the
// default prometheus registry, which is registered at most once.
func InitMetrics(reg prometheus.Registerer) {
	if reg == nil {
		defaultOnce.Do(func() {
			prometheus.MustRegister(Collectors()...)
		})
		return
	}
	reg.MustRegister(Collectors()...)
}
