// Command ldpstored runs the resource service as a long-lived process:
// it loads configuration, wires the dependency container, bootstraps
// the root resource, and exposes /healthz and /metrics while the
// service itself is driven by whatever transport embeds internal/service.
// This binary only proves the process lifecycle; wire transport is left
// to callers. Follows cmd/api/main.go's signal-driven shutdown sequence.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ldpstore/internal/config"
	"ldpstore/internal/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("LDP_CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	watcher, err := config.NewWatcher(cfgPath, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start configuration watcher", zap.Error(err))
	}
	defer watcher.Close()

	container, err := di.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize container", zap.Error(err))
	}

	if _, err := container.Service.Initialize(ctx).Await(ctx); err != nil {
		logger.Fatal("failed to bootstrap root resource", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !container.Health.IsUp() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("down"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(container.Metrics.Registry(), promhttp.HandlerOpts{}))

	addr := os.Getenv("LDP_LISTEN_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting ldpstored", zap.String("address", addr), zap.String("rdf-location", cfg.RdfLocation))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down ldpstored")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}
	if err := container.Shutdown(shutdownCtx); err != nil {
		logger.Error("container shutdown error", zap.Error(err))
	}

	log.Println("ldpstored stopped")
}
