package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session metrics
	exchangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drillgo_exchanges_total",
			Help: "Total number of graded training exchanges by outcome",
		},
		[]string{"outcome"}, // pass, fail, neutral
	)

	hintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drillgo_hints_total",
			Help: "Total number of hint requests by charge kind",
		},
		[]string{"charge"}, // score, lives
	)

	gameOversTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drillgo_game_overs_total",
			Help: "Total number of game-over commits",
		},
	)

	livesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drillgo_lives",
			Help: "Current number of lives in the active session",
		},
	)

	scoreGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drillgo_score",
			Help: "Current score in the active session",
		},
	)

	// Oracle metrics
	oracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drillgo_oracle_requests_total",
			Help: "Total number of oracle requests",
		},
		[]string{"provider", "status"},
	)

	oracleRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drillgo_oracle_request_duration_seconds",
			Help:    "Oracle request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	initOnce sync.Once
)

// InitMetrics registers the Prometheus metrics
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			exchangesTotal,
			hintsTotal,
			gameOversTotal,
			livesGauge,
			scoreGauge,
			oracleRequestsTotal,
			oracleRequestDuration,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordExchange records a graded exchange outcome ("pass", "fail" or "neutral")
func RecordExchange(outcome string) {
	exchangesTotal.WithLabelValues(outcome).Inc()
}

// RecordHint records a hint request and what it was charged against
// ("score" or "lives")
func RecordHint(charge string) {
	hintsTotal.WithLabelValues(charge).Inc()
}

// RecordGameOver records a game-over commit
func RecordGameOver() {
	gameOversTotal.Inc()
}

// SetLives sets the lives gauge
func SetLives(lives float64) {
	livesGauge.Set(lives)
}

// SetScore sets the score gauge
func SetScore(score int) {
	scoreGauge.Set(float64(score))
}

// RecordOracleRequest records an oracle request result
func RecordOracleRequest(provider, status string, duration time.Duration) {
	oracleRequestsTotal.WithLabelValues(provider, status).Inc()
	oracleRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
