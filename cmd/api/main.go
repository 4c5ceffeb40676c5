package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookiespots_backend/internal/aggregator"
	"cookiespots_backend/internal/cache"
	"cookiespots_backend/internal/geocode"
	apphttp "cookiespots_backend/internal/http"
	"cookiespots_backend/internal/http/router"
	"cookiespots_backend/internal/providers"
	"cookiespots_backend/internal/resolver"
	"cookiespots_backend/internal/search"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/db"
	"cookiespots_backend/platform/logger"
	"cookiespots_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	store, closeStore := initCache(ctx, cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	geocoder := geocode.NewGoogle(cfg, log)

	sources := []providers.Provider{
		providers.NewGoogle(cfg, geocoder, store, log),
		providers.NewYelp(cfg, store, log),
		providers.NewFacebook(cfg, geocoder, store, log),
	}

	locationResolver := resolver.New(geocoder, cfg, log)
	agg := aggregator.New(sources, cfg, log)
	searchModule := search.NewModule(locationResolver, agg, store, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			searchModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache picks the redis-backed cache when REDIS_URL is configured and
// falls back to the in-process cache otherwise.
func initCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.Cache, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; using in-process cache")
		return cache.NewMemory(), nil
	}

	redisCache, err := cache.NewRedis(cfg)
	if err != nil {
		log.Error("failed to initialize redis cache, using in-process cache", "error", err)
		return cache.NewMemory(), nil
	}
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("redis unreachable, using in-process cache", "error", err)
		return cache.NewMemory(), nil
	}

	log.Info("redis cache initialized")
	return redisCache, func() {
		_ = redisCache.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
