package router

import "github.com/prometheus/client_golang/prometheus"

var (
	synthTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "router",
			Name:      "synth_total",
			Help:      "Completed synthesis executions by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "router",
			Name:      "cache_hits_total",
			Help:      "Dispatches answered directly from the artifact cache",
		},
	)

	busyRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "router",
			Name:      "busy_rejections_total",
			Help:      "Dispatches rejected because the cache path was already in flight",
		},
	)
)

func init() {
	prometheus.MustRegister(synthTotal, cacheHits, busyRejections)
}
