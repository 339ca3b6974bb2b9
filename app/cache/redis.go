package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/config"
)

type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context) (*entity.CacheData, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}

// Set writes without a Redis TTL; expiry is decided by the cache policy.
func (s *RedisStore) Set(ctx context.Context, data entity.CacheData) error {
	payload, err := Encode(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, payload, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
