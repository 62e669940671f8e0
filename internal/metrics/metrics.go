package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheStale      prometheus.Counter
	Invalidations   prometheus.Counter
	Fallbacks       prometheus.Counter
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = New()
		prometheus.MustRegister(
			global.Requests,
			global.RequestDuration,
			global.CacheHits,
			global.CacheMisses,
			global.CacheStale,
			global.Invalidations,
			global.Fallbacks,
		)
	})
	return global
}

// New builds an unregistered set of collectors. Tests use it to avoid the default registry.
func New() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "api_requests_total",
			Help:      "Total admin API requests by method and status",
		}, []string{"method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adminconsole",
			Name:      "api_request_duration_seconds",
			Help:      "Admin API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "cache_hits_total",
			Help:      "Query cache reads served from a fresh entry",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "cache_misses_total",
			Help:      "Query cache reads that had to wait for a fetch",
		}),
		CacheStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "cache_stale_total",
			Help:      "Query cache reads served stale while refetching in the background",
		}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "cache_invalidations_total",
			Help:      "Key prefixes invalidated after successful mutations",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "api_fallbacks_total",
			Help:      "Primary endpoint failures answered by a fallback endpoint",
		}),
	}
}
