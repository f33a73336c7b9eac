// Package metrics exposes Prometheus counters for the console's gateway
// calls, dispatched actions and status pollers.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cellconsole"

// Metrics holds the collectors, registered on a private registry so several
// engines in one process (and tests) do not collide.
type Metrics struct {
	registry *prometheus.Registry

	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec

	Actions *prometheus.CounterVec
	Dropped *prometheus.CounterVec
	Pollers *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GatewayCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_calls_total",
				Help:      "Backend calls by endpoint and HTTP status",
			},
			[]string{"endpoint", "status"},
		),
		GatewayDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Backend call latency in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		GatewayErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_errors_total",
				Help:      "Backend calls that failed",
			},
			[]string{"endpoint"},
		),
		Actions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Actions applied to the store",
			},
			[]string{"kind"},
		),
		Dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_dropped_total",
				Help:      "Status results discarded because their poller was stopped",
			},
			[]string{"kind"},
		),
		Pollers: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "status_pollers",
				Help:      "Running status pollers by job",
			},
			[]string{"job"},
		),
	}
}

// ObserveCall records one backend call.
func (m *Metrics) ObserveCall(endpoint string, status int, seconds float64, err error) {
	m.GatewayCalls.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.GatewayDuration.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		m.GatewayErrors.WithLabelValues(endpoint).Inc()
	}
}

func (m *Metrics) ObserveAction(kind action.Kind) {
	m.Actions.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveDropped(kind action.Kind) {
	m.Dropped.WithLabelValues(string(kind)).Inc()
}

// ObservePoller sets the poller gauge for job.
func (m *Metrics) ObservePoller(job models.JobType, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	m.Pollers.WithLabelValues(string(job)).Set(v)
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
