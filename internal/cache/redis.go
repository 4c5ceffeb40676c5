package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cookiespots_backend/internal/venues"
	"cookiespots_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces cache entries so FlushAll cannot touch asynq state
// sharing the same redis instance.
const keyPrefix = "spots:"

// Redis is a TTL cache backed by a shared redis instance, for deployments
// where multiple processes (API, seed worker) should share provider results.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redis using the configured URL.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		} else {
			opt.TLSConfig.InsecureSkipVerify = true
		}
	}

	return &Redis{client: redis.NewClient(opt)}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests with miniredis.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping checks redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]venues.Candidate, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var value []venues.Candidate
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []venues.Candidate, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+key, raw, ttl).Err()
}

// FlushAll implements Cache. Only keys under the cache prefix are removed.
func (r *Redis) FlushAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
