package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds the Prometheus instruments for the bot.
type Metrics struct {
	UpdatesProcessed prometheus.Counter
	CommandsTotal    *prometheus.CounterVec
	CommitsTotal     *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	HandleDuration   prometheus.Histogram
	ErrorsTotal      prometheus.Counter
}

// Commit outcome label values.
const (
	OutcomeCommitted = "committed"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
)

// New registers and returns the bot metrics.
func New() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grill_bot_updates_processed_total",
			Help: "Total number of Telegram updates processed",
		}),

		CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "grill_bot_commands_total",
			Help: "Total number of dialog commands by type",
		}, []string{"command"}),

		CommitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "grill_bot_commits_total",
			Help: "Reservation commit attempts by outcome",
		}, []string{"outcome"}),

		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "grill_bot_active_sessions",
			Help: "Number of in-flight dialog sessions",
		}),

		HandleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "grill_bot_handle_duration_seconds",
			Help:    "Time spent handling a single update",
			Buckets: prometheus.DefBuckets,
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grill_bot_errors_total",
			Help: "Total number of handler errors",
		}),
	}
}

// Serve exposes /metrics on the given port until ctx is cancelled.
func Serve(ctx context.Context, port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
