package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/internal/resolver"
	"cookiespots_backend/internal/seeder"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"

	"golang.org/x/time/rate"
)

// seed resolves the configured cities to postal codes and enqueues one
// seeding task per code. The worker binary drains the queue.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting seed enqueue", "cities", cfg.SeedCities)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := seeder.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize seed client", "error", err)
		panic("failed to initialize seed client: " + err.Error())
	}
	defer client.Close()

	geocoder := geocode.NewGoogle(cfg, log)
	locationResolver := resolver.New(geocoder, cfg, log)

	// Pace geocoding so a long city list does not burn through quota.
	perSecond := cfg.GetSeedRatePerSecond()
	if perSecond <= 0 {
		perSecond = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)

	enqueued := 0
	for _, city := range cfg.SeedCities {
		if err := limiter.Wait(ctx); err != nil {
			log.Info("seed enqueue interrupted", "enqueued", enqueued)
			return
		}

		postalCodes, err := locationResolver.Resolve(ctx, resolver.Query{Text: city})
		if err != nil {
			log.Error("failed to resolve city", "city", city, "error", err)
			continue
		}

		for _, postalCode := range postalCodes {
			payload := seeder.SeedPostalCodePayload{PostalCode: postalCode, City: city}
			if err := client.EnqueueSeedPostalCode(ctx, payload); err != nil {
				log.Error("failed to enqueue seed task", "postalCode", postalCode, "error", err)
				continue
			}
			enqueued++
		}

		log.Info("city enqueued", "city", city, "postalCodes", len(postalCodes))
	}

	log.Info("seed enqueue complete", "tasks", enqueued)
}
