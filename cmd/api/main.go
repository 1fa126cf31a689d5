package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"poster-server/internal/adapter/repo"
	"poster-server/internal/bootstrap"
	"poster-server/internal/credits"
	"poster-server/internal/http/handlers"
	httpapi "poster-server/internal/http/httpapi"
	"poster-server/internal/infra"
	"poster-server/internal/infra/geoip"
	"poster-server/internal/pipeline"
	"poster-server/internal/posterstore"
	"poster-server/internal/storage"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stack, err := bootstrap.NewPosterStack(ctx, cfg, runner, reg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure poster pipeline")
	}

	var lookup func(ip string) (string, error)
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
		} else {
			defer resolver.Close()
			lookup = resolver.Lookup()
		}
	}

	assets := repo.NewAssetRepository(runner)
	app := &handlers.App{
		Config:      cfg,
		Logger:      logger,
		Posters:     stack.Pipeline,
		Recipes:     stack.Recipes,
		Credits:     credits.NewSQLGate(runner),
		Usage:       stack.Usage,
		UsageReport: stack.Store,
		Jobs:        repo.NewJobRepository(runner),
		Assets:      assets,
		Saver:       posterstore.NewSaver(fileStore, assets),
		Files:       fileStore,
		Active:      pipeline.NewActiveRequests(),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Ping:        dbpool.Ping,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		CountryLookup: lookup,
		StaticDir:     fileStore.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
