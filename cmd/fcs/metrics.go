package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var phaseSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "fcs_tick_phase_duration_seconds",
	Help:    "Wall time spent per tick phase.",
	Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
}, []string{"phase"})

func observePhase(p coresys.Phase, d time.Duration) {
	phaseSeconds.With(prometheus.Labels{"phase": p.String()}).Observe(d.Seconds())
}

// serveMetrics exposes /metrics and /health until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, log *zap.Logger) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: addr, Handler: &mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn("shutting down the metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	log.Info("starting metrics server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
	}
}
