package element

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(renderFailures)
}

var renderFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vessel",
	Subsystem: "element",
	Name:      "render_failures_total",
	Help:      "Total formatter render failures by container type",
}, []string{"type"})
