package observability

import "github.com/prometheus/client_golang/prometheus"

const namespace = "sfagent"

// Pipeline metrics are exported so the services that own each stage can
// record observations directly.
var (
	// SearchResultsCount tracks how many products each search returns.
	SearchResultsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results_count",
			Help:      "Number of products returned per search request.",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 16, 32, 50},
		},
	)

	// IntentFallbacksTotal counts conversational requests that degraded
	// to the plain-search fallback because intent extraction failed.
	IntentFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_fallbacks_total",
			Help:      "Total conversational requests handled by the extraction fallback.",
		},
	)

	// IntentRequestDuration tracks intent extraction latency.
	IntentRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_request_duration_seconds",
			Help:      "Duration of intent extraction calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// IntentRepliesScrubbedTotal counts generated replies replaced by
	// the guardrail scan.
	IntentRepliesScrubbedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_replies_scrubbed_total",
			Help:      "Total generated replies replaced for violating reply guardrails.",
		},
	)

	// EmbeddingRequestsTotal counts embedding provider calls by outcome.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total embedding requests sent to the provider.",
		},
		[]string{"status"},
	)

	// EmbeddingRequestDuration tracks embedding provider latency.
	EmbeddingRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Duration of embedding provider calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// EmbeddingCacheTotal counts embedding cache lookups by result.
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups partitioned by hit or miss.",
		},
		[]string{"result"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers the retrieval pipeline collectors with
// the default registry. Safe to call more than once.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		SearchResultsCount,
		IntentFallbacksTotal,
		IntentRequestDuration,
		IntentRepliesScrubbedTotal,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingCacheTotal,
	)
	pipelineMetricsRegistered = true
}
