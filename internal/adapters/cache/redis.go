package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ytlingo:transcript:"

// RedisCache shares synthesized transcripts between server instances
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.Transcript, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var tr domain.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, transcript *domain.Transcript) error {
	data, err := json.Marshal(transcript)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err()
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ ports.TranscriptCache = (*RedisCache)(nil)
