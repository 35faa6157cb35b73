// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Score outcomes.
const (
	OutcomeScored     = "scored"
	OutcomeEmpty      = "empty"
	OutcomeInvalid    = "invalid_address"
	OutcomeFetchError = "fetch_error"
)

// Fetch stages.
const (
	StageTokens = "tokens"
	StageNFTs   = "nfts"
	StageStore  = "store"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scoring metrics
	ScoresComputed *prometheus.CounterVec
	TitlesAwarded  *prometheus.CounterVec
	ScorePoints    prometheus.Histogram

	// Fetch metrics
	FetchDuration        prometheus.Histogram
	FetchErrors          *prometheus.CounterVec
	RPCCallLatency       *prometheus.HistogramVec
	WSNotifications      prometheus.Counter
	TokenAccountsSkipped prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Report metrics
	ReportsGenerated prometheus.Counter

	// Health metrics
	LastScoreTimestamp prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "retardio_meter"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScoresComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "scores_computed_total",
			Help:      "Total number of score requests by outcome",
		}, []string{"outcome"}),
		TitlesAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "titles_awarded_total",
			Help:      "Total number of titles awarded by title",
		}, []string{"title"}),
		ScorePoints: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "points",
			Help:      "Distribution of computed wallet scores",
			Buckets:   []float64{0, 1000, 10000, 50000, 100000, 400000, 1000000, 5000000},
		}),

		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "holdings",
			Name:      "fetch_duration_seconds",
			Help:      "Wallet holdings fetch duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holdings",
			Name:      "fetch_errors_total",
			Help:      "Total number of holdings fetch errors by stage",
		}, []string{"stage"}),
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSNotifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_notifications_total",
			Help:      "Total number of wallet log notifications received",
		}),
		TokenAccountsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holdings",
			Name:      "token_accounts_skipped_total",
			Help:      "Total number of token accounts skipped as unparseable",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of leaderboard reports generated",
		}),

		LastScoreTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_score_timestamp",
			Help:      "Unix timestamp of the last successful score",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordScore records a successful score with its points and titles.
func RecordScore(points int64, titles []string, unixSeconds int64) {
	outcome := OutcomeScored
	if points == 0 {
		outcome = OutcomeEmpty
	}
	DefaultMetrics.ScoresComputed.WithLabelValues(outcome).Inc()
	DefaultMetrics.ScorePoints.Observe(float64(points))
	for _, title := range titles {
		DefaultMetrics.TitlesAwarded.WithLabelValues(title).Inc()
	}
	DefaultMetrics.LastScoreTimestamp.Set(float64(unixSeconds))
}

// RecordScoreFailure records a score request that produced no result.
func RecordScoreFailure(outcome string) {
	DefaultMetrics.ScoresComputed.WithLabelValues(outcome).Inc()
}

// RecordFetch records a holdings fetch duration.
func RecordFetch(seconds float64) {
	DefaultMetrics.FetchDuration.Observe(seconds)
}

// RecordFetchError records a fetch failure at the given stage.
func RecordFetchError(stage string) {
	DefaultMetrics.FetchErrors.WithLabelValues(stage).Inc()
}

// RecordSkippedTokenAccount records an unparseable token account.
func RecordSkippedTokenAccount() {
	DefaultMetrics.TokenAccountsSkipped.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordWSNotification counts a wallet log notification.
func RecordWSNotification() {
	DefaultMetrics.WSNotifications.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated counts a generated leaderboard report.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
