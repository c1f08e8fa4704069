// Command windspeedd runs the regrid pipeline as a long-lived worker:
// jobs arrive on a Kafka topic, results go to a sink topic, and health,
// readiness, and metrics are served over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/windspeed-raster/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/windspeed-raster/internal/adapter/kafka"
	"github.com/couchcryptid/windspeed-raster/internal/config"
	"github.com/couchcryptid/windspeed-raster/internal/observability"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
	"github.com/couchcryptid/windspeed-raster/internal/resample"
	"github.com/couchcryptid/windspeed-raster/internal/service"
)

func main() {
	cfg, err := config.LoadService()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	engine := &resample.NearestNeighbor{Workers: cfg.Workers}
	pipe := pipeline.New(engine, logger, metrics)
	worker := service.NewWorker(reader, writer, pipe, cfg.Workers, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, worker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start job worker.
	go func() {
		if err := worker.Run(ctx); err != nil {
			logger.Error("worker error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
