package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-equity-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-equity-etl/internal/adapter/kafka"
	"github.com/couchcryptid/flood-equity-etl/internal/config"
	"github.com/couchcryptid/flood-equity-etl/internal/observability"
	"github.com/couchcryptid/flood-equity-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		logger.Error("failed to create output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	runner := pipeline.NewAnalysisRunner(pipeline.RunnerConfig{
		DefaultGamma:     cfg.DefaultGamma,
		AggregationLabel: cfg.AggregationLabel,
		IncomeLabel:      cfg.IncomeLabel,
		PopulationLabel:  cfg.PopulationLabel,
		DamagePattern:    cfg.DamagePattern,
		EADColumn:        cfg.EADColumn,
		OutputDir:        cfg.OutputDir,
	}, logger)

	p := pipeline.New(reader, runner, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
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
