// Package telemetry serves the scrape endpoint together with the exporter's
// own metrics, health endpoints and pprof.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const name = "telemetry_server"

type Server struct {
	server *http.Server
	log    *zap.Logger
}

func New(
	log *zap.Logger,
	listenAddress string,
	registry *prometheus.Registry,
	scrapeHandler http.Handler,
	readinessChecks map[string]healthcheck.Check,
) *Server {
	health := healthcheck.NewMetricsHandler(registry, "wireguard_exporter")
	for checkName, check := range readinessChecks {
		health.AddReadinessCheck(checkName, check)
	}

	router := http.NewServeMux()

	// WireGuard metrics, recomputed from the live state on every request
	router.Handle("/metrics", scrapeHandler)

	// Exporter self metrics
	router.Handle("/internal/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Timeout: 5 * time.Second}))

	// Liveness / Readiness
	router.HandleFunc("/live", health.LiveEndpoint)
	router.HandleFunc("/ready", health.ReadyEndpoint)

	// PProf
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &Server{
		log: log.Named(name).With(zap.String("listen-address", listenAddress)),
		server: &http.Server{
			Addr:         listenAddress,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)

	go func() {
		s.log.Info("Starting the telemetry server")

		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Stopping the telemetry server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return multierr.Append(s.server.Shutdown(shutdownCtx), <-serveErr)
}
