package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const DefaultKeyPrefix = "weather-dashboard:"

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Timeout   time.Duration
}

// RedisPreferenceStore persists preferences without expiry so they survive
// across sessions.
type RedisPreferenceStore struct {
	client redis.UniversalClient
	prefix string
	logger logger.Logger
}

func NewRedisPreferenceStore(opts RedisOptions, log logger.Logger) (*RedisPreferenceStore, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     4,
		MinIdleConns: 1,
		MaxRetries:   1,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})

	store := NewRedisPreferenceStoreFromClient(client, opts.KeyPrefix, log)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store.logger.Infof("Redis preference store connected to %s", opts.Addr)
	return store, nil
}

func NewRedisPreferenceStoreFromClient(client redis.UniversalClient, prefix string, log logger.Logger) *RedisPreferenceStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisPreferenceStore{
		client: client,
		prefix: prefix,
		logger: logger.Component(log, "redis_preference_store"),
	}
}

func (r *RedisPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", entities.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %q from Redis: %w", key, err)
	}
	return value, nil
}

func (r *RedisPreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q in Redis: %w", key, err)
	}
	r.logger.Debugf("Stored preference %s=%s", key, value)
	return nil
}

func (r *RedisPreferenceStore) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisPreferenceStore) Close() error {
	r.logger.Info("Closing Redis preference store...")
	return r.client.Close()
}

func (r *RedisPreferenceStore) key(key string) string {
	return r.prefix + key
}
