package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookiespots_backend/internal/aggregator"
	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/internal/providers"
	"cookiespots_backend/internal/seeder"
	"cookiespots_backend/internal/venues/repository"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/db"
	"cookiespots_backend/platform/logger"
)

// seedConfig narrows the provider cache TTL to the seeding TTL so warmed
// entries expire on the seeding schedule rather than the serving one.
type seedConfig struct {
	*config.Config
}

func (c seedConfig) GetProviderCacheTTL() time.Duration {
	return c.Config.GetSeedCacheTTL()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting seed worker", "queue", cfg.AsynqQueueName, "concurrency", cfg.AsynqConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	store, err := cache.NewRedis(cfg)
	if err != nil {
		log.Error("failed to initialize redis cache", "error", err)
		panic("failed to initialize redis cache: " + err.Error())
	}
	defer store.Close()

	providerCfg := seedConfig{cfg}
	geocoder := geocode.NewGoogle(cfg, log)
	agg := aggregator.New([]providers.Provider{
		providers.NewGoogle(providerCfg, geocoder, store, log),
		providers.NewYelp(providerCfg, store, log),
		providers.NewFacebook(providerCfg, geocoder, store, log),
	}, cfg, log)

	worker, err := seeder.NewWorker(cfg, agg, repository.New(pool), log)
	if err != nil {
		log.Error("failed to initialize seed worker", "error", err)
		panic("failed to initialize seed worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("seed worker shut down")
}
