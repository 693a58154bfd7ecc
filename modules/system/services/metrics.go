package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hierarchyDroppedNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laurel",
		Subsystem: "hierarchy",
		Name:      "dropped_nodes_total",
		Help:      "Total number of nodes left out of assembled trees because no root reaches them.",
	}, []string{"resource"})

	reparentRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laurel",
		Subsystem: "hierarchy",
		Name:      "reparent_rejected_total",
		Help:      "Total number of parent changes refused because they would create a cycle.",
	}, []string{"resource"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laurel",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of cache lookups broken down by cache and hit/miss.",
	}, []string{"cache", "result"})

	cacheInvalidate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laurel",
		Subsystem: "cache",
		Name:      "invalidate_total",
		Help:      "Total number of cache invalidations broken down by reason.",
	}, []string{"reason"})
)

func recordDroppedNodes(resource string, n int) {
	if n <= 0 {
		return
	}
	hierarchyDroppedNodes.WithLabelValues(resource).Add(float64(n))
}

func recordReparentRejected(resource string) {
	reparentRejected.WithLabelValues(resource).Inc()
}

func recordCacheRequest(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequests.WithLabelValues(cache, result).Inc()
}

func recordCacheInvalidate(reason string) {
	if reason == "" {
		reason = "manual"
	}
	cacheInvalidate.WithLabelValues(reason).Inc()
}
