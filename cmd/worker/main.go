package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"poster-server/internal/adapter/repo"
	"poster-server/internal/bootstrap"
	"poster-server/internal/credits"
	"poster-server/internal/infra"
	"poster-server/internal/posterstore"
	"poster-server/internal/storage"
	"poster-server/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stack, err := bootstrap.NewPosterStack(ctx, cfg, runner, reg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure poster pipeline")
	}

	jobs := repo.NewJobRepository(runner)
	w := worker.New(worker.Deps{
		Jobs:    jobs,
		Stale:   jobs,
		Runner:  stack.Pipeline,
		Saver:   posterstore.NewSaver(fileStore, repo.NewAssetRepository(runner)),
		Credits: credits.NewSQLGate(runner),
		Usage:   stack.Usage,
	}, worker.Config{
		PollInterval:      cfg.WorkerPollInterval,
		StaleAfter:        cfg.WorkerStaleAfter,
		CreditsPerVariant: cfg.CreditsPerVariant,
	}, reg, logger)

	if cfg.WorkerMetricsPort != "" {
		srv := &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("port", cfg.WorkerMetricsPort).Msg("worker: metrics listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("worker: metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
