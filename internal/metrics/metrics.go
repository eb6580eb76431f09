package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_oracle_requests_total",
			Help: "Total number of oracle calls by service and outcome",
		},
		[]string{"service", "status"},
	)

	OracleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sift_oracle_duration_seconds",
			Help:    "Duration of oracle calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service"},
	)

	EmbedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_embed_cache_lookups_total",
			Help: "Embedding cache lookups by result",
		},
		[]string{"result"},
	)

	HarvestRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_harvest_requests_total",
			Help: "Corpus page fetches by status and challenge detection",
		},
		[]string{"domain", "status", "challenged"},
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_pipeline_runs_total",
			Help: "Completed FAQ selection runs by outcome",
		},
		[]string{"status"},
	)

	StageCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sift_stage_candidates",
			Help: "Candidate count surviving each pipeline stage in the last run",
		},
		[]string{"stage"},
	)
)

// RecordOracleCall updates the oracle counters for one completed call.
func RecordOracleCall(service string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OracleRequestsTotal.WithLabelValues(service, status).Inc()
	OracleDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordCacheLookup counts an embedding cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	EmbedCacheLookups.WithLabelValues(result).Inc()
}

// RecordHarvest counts one corpus page fetch.
func RecordHarvest(domain string, statusCode int, challenged bool, fetchErr string) {
	status := strconv.Itoa(statusCode)
	if fetchErr != "" {
		status = "error"
	}
	ch := "false"
	if challenged {
		ch = "true"
	}
	HarvestRequestsTotal.WithLabelValues(domain, status, ch).Inc()
}

// RecordStage publishes the surviving candidate count after a stage.
func RecordStage(stage string, count int) {
	StageCandidates.WithLabelValues(stage).Set(float64(count))
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
