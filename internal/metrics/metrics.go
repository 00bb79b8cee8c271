package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"mode", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapengine_quote_duration_seconds",
			Help:    "Quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	BackendFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_backend_fallbacks_total",
		Help: "Total number of primary-to-fallback backend switches on liquidity failure",
	})

	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_backend_errors_total",
			Help: "Total number of backend failures",
		},
		[]string{"backend", "class"},
	)

	RouterSimRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_router_sim_rejections_total",
		Help: "Total number of direct AMM quotes rejected by router simulation",
	})

	// Execution metrics
	ExecuteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_execute_requests_total",
			Help: "Total number of swap execution requests",
		},
		[]string{"status"},
	)

	ExecuteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapengine_execute_duration_seconds",
		Help:    "Swap execution duration in seconds (validation + submission)",
		Buckets: prometheus.DefBuckets,
	})

	SponsoredSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_sponsored_submissions_total",
		Help: "Total number of submissions with fee sponsorship granted",
	})

	// Quote cache metrics
	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_quote_cache_hits_total",
		Help: "Total number of quote cache hits",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_quote_cache_misses_total",
		Help: "Total number of quote cache misses",
	})

	QuoteCacheDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapengine_quote_cache_degraded_total",
		Help: "Total number of cache operations served by the in-process fallback store",
	})

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swapengine_quote_cache_inproc_size",
		Help: "Current number of entries in the in-process fallback store",
	})

	// Transaction log metrics
	SwapLogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_swaplog_writes_total",
			Help: "Total number of transaction log writes",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapengine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapengine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
