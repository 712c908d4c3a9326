// Package metrics exposes editor counters on a private prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Renders = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "ifs_editor",
	Subsystem: "render",
	Name:      "total",
})

var RenderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "ifs_editor",
	Subsystem: "render",
	Name:      "duration_seconds",
	Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
})

var ConfigLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ifs_editor",
	Subsystem: "config",
	Name:      "loads",
}, []string{"path", "result"})

var ConfigSaves = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ifs_editor",
	Subsystem: "config",
	Name:      "saves",
}, []string{"path", "result"})

var StructuralOps = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ifs_editor",
	Subsystem: "keyframes",
	Name:      "structural_ops",
}, []string{"op", "result"})

// Registry holds every editor collector.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(Renders, RenderDuration, ConfigLoads, ConfigSaves, StructuralOps)
}

// Handler serves the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Result is the label value for an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
