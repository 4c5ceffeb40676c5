// Package seeder implements the background seeding pipeline: an asynq queue
// of postal codes whose provider results get warmed into the cache and
// persisted as venues.
package seeder

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"cookiespots_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// Enqueuer schedules postal codes for background seeding.
type Enqueuer interface {
	EnqueueSeedPostalCode(ctx context.Context, payload SeedPostalCodePayload) error
}

func NewClient(cfg config.SeederConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueSeedPostalCode(ctx context.Context, payload SeedPostalCodePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewSeedPostalCodeTask(payload)
	if err != nil {
		return err
	}

	// MaxRetry 3 keeps a flaky provider zip from looping forever; task IDs
	// dedupe repeated enqueues of the same zip within a run.
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(3),
		asynq.TaskID("seed:"+payload.PostalCode),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	return nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
