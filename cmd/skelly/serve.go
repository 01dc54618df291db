package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/skelly/internal/cli"
	httpAdapter "github.com/aretw0/skelly/pkg/adapters/http"
	"github.com/aretw0/skelly/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves trackers and actors over a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		reg, err := cli.BuildRegistry(cfg.Layouts)
		if err != nil {
			return err
		}
		backend, err := cli.OpenBackend(cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		hooks := observability.LoggingHooks(logger)
		router := chi.NewRouter()
		if cfg.Server.Metrics {
			promReg := prometheus.NewRegistry()
			metrics, err := observability.NewMetrics(promReg)
			if err != nil {
				return err
			}
			hooks = observability.Chain(hooks, metrics.Hooks())
			router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		}

		router.Mount("/", httpAdapter.NewHandler(reg,
			httpAdapter.WithStore(backend.Store),
			httpAdapter.WithLocker(backend.Locker),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithLifecycleHooks(hooks),
		))
		return serve(cmd.Context(), addr, router)
	},
}

func serve(parent context.Context, addr string, handler http.Handler) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx := cli.NewSignalContext(parent)
	defer ctx.Cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting skelly server", "addr", addr, "backend", cfg.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down", "signal", ctx.Signal())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides [server].addr)")
}
