package seeder

import (
	"context"
	"fmt"

	"cookiespots_backend/internal/aggregator"
	"cookiespots_backend/internal/venues/repository"
	"cookiespots_backend/platform/config"
	"cookiespots_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	agg    *aggregator.Aggregator
	repo   *repository.Repository
	log    *logger.Logger
}

func NewWorker(cfg config.SeederConfig, agg *aggregator.Aggregator, repo *repository.Repository, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		agg:    agg,
		repo:   repo,
		log:    log,
	}

	mux.HandleFunc(TaskSeedPostalCode, w.handleSeedPostalCode)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("seed worker stopped", "error", err)
	}
}

func (w *Worker) handleSeedPostalCode(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSeedPostalCodePayload(task)
	if err != nil {
		return err
	}

	spots := w.agg.FetchAll(ctx, []string{payload.PostalCode})
	if len(spots) == 0 {
		w.log.Info("seed task found no venues", "postalCode", payload.PostalCode, "city", payload.City)
		return nil
	}

	written, err := w.repo.UpsertAll(ctx, spots)
	if err != nil {
		return fmt.Errorf("seed %s: persisted %d of %d venues: %w", payload.PostalCode, written, len(spots), err)
	}

	// Stored count can exceed this run's batch when earlier runs seeded the
	// same zip from providers that are now unconfigured.
	stored, err := w.repo.ListByPostalCode(ctx, payload.PostalCode)
	if err != nil {
		w.log.Warn("seed task could not read back stored venues", "postalCode", payload.PostalCode, "error", err)
	}

	w.log.Info("seed task complete", "postalCode", payload.PostalCode, "city", payload.City, "venues", written, "stored", len(stored))
	return nil
}
