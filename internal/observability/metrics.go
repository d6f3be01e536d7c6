// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// History metrics
	SignaturesListed    prometheus.Counter
	BatchesResolved     prometheus.Counter
	BatchSize           prometheus.Histogram
	TradeEvents         *prometheus.CounterVec
	IgnoredTransactions prometheus.Counter
	SkippedTransactions *prometheus.CounterVec

	// Collaborator metrics
	RPCCallLatency  *prometheus.HistogramVec
	RPCCallErrors   *prometheus.CounterVec
	MetadataLookups *prometheus.CounterVec
	PriceLookups    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec

	// Analysis metrics
	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	PhaseDuration    *prometheus.HistogramVec
	AssetsClassified *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "nftape"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SignaturesListed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "signatures_listed_total",
			Help:      "Total number of signatures listed for analyzed addresses",
		}),
		BatchesResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "batches_resolved_total",
			Help:      "Total number of signature batches resolved to transactions",
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "batch_size",
			Help:      "Number of signatures per resolution batch",
			Buckets:   []float64{1, 10, 50, 100, 150, 220},
		}),
		TradeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "trade_events_total",
			Help:      "Total number of trade events produced",
		}, []string{"kind", "exchange"}),
		IgnoredTransactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "ignored_transactions_total",
			Help:      "Transactions not produced by a known marketplace",
		}),
		SkippedTransactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "skipped_transactions_total",
			Help:      "Marketplace transactions skipped because they could not be parsed",
		}, []string{"reason"}),

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "Latency of Solana RPC calls including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_errors_total",
			Help:      "Solana RPC calls that failed after all retries",
		}, []string{"method"}),
		MetadataLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "lookups_total",
			Help:      "Metadata lookups by status",
		}, []string{"status"}),
		PriceLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "lookups_total",
			Help:      "Price statistics lookups by status",
		}, []string{"status"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "cache_lookups_total",
			Help:      "Price statistics cache lookups by result",
		}, []string{"result"}),

		AnalysisRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of address analyses by status",
		}, []string{"status"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis duration",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "phase_duration_seconds",
			Help:      "Duration of each analysis phase",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"phase"}),
		AssetsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "assets_classified_total",
			Help:      "Assets classified by verdict",
		}, []string{"verdict"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordSignaturesListed adds n listed signatures.
func RecordSignaturesListed(n int) {
	DefaultMetrics.SignaturesListed.Add(float64(n))
}

// RecordBatchResolved records one resolved signature batch.
func RecordBatchResolved(size int) {
	DefaultMetrics.BatchesResolved.Inc()
	DefaultMetrics.BatchSize.Observe(float64(size))
}

// RecordTradeEvent increments the trade events counter.
func RecordTradeEvent(kind, exchange string) {
	DefaultMetrics.TradeEvents.WithLabelValues(kind, exchange).Inc()
}

// RecordIgnoredTransaction increments the ignored transactions counter.
func RecordIgnoredTransaction() {
	DefaultMetrics.IgnoredTransactions.Inc()
}

// RecordSkippedTransaction increments the skipped transactions counter.
func RecordSkippedTransaction(reason string) {
	DefaultMetrics.SkippedTransactions.WithLabelValues(reason).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordRPCError records an RPC call that exhausted its retries.
func RecordRPCError(method string) {
	DefaultMetrics.RPCCallErrors.WithLabelValues(method).Inc()
}

// RecordMetadataLookup records a metadata lookup outcome ("ok", "missing", "error").
func RecordMetadataLookup(status string) {
	DefaultMetrics.MetadataLookups.WithLabelValues(status).Inc()
}

// RecordPriceLookup records a price lookup outcome ("ok", "error", "skipped").
func RecordPriceLookup(status string) {
	DefaultMetrics.PriceLookups.WithLabelValues(status).Inc()
}

// RecordCacheLookup records a price cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DefaultMetrics.CacheLookups.WithLabelValues(result).Inc()
}

// RecordAnalysisRun records a finished analysis.
func RecordAnalysisRun(status string, durationSeconds float64) {
	DefaultMetrics.AnalysisRuns.WithLabelValues(status).Inc()
	DefaultMetrics.AnalysisDuration.Observe(durationSeconds)
}

// RecordPhase records the duration of one analysis phase.
func RecordPhase(phase string, durationSeconds float64) {
	DefaultMetrics.PhaseDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordAssetClassified records a hand verdict ("paper", "diamond", "unclassified").
func RecordAssetClassified(verdict string) {
	DefaultMetrics.AssetsClassified.WithLabelValues(verdict).Inc()
}
