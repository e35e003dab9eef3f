package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// HighlightCache caches the current-highlights read path per calendar day.
type HighlightCache interface {
	Get(ctx context.Context, day string) ([]models.DailyHighlight, bool, error)
	Set(ctx context.Context, day string, highlights []models.DailyHighlight) error
	Invalidate(ctx context.Context, day string) error
}

// NopHighlightCache never hits.
type NopHighlightCache struct{}

func (NopHighlightCache) Get(context.Context, string) ([]models.DailyHighlight, bool, error) {
	return nil, false, nil
}
func (NopHighlightCache) Set(context.Context, string, []models.DailyHighlight) error { return nil }
func (NopHighlightCache) Invalidate(context.Context, string) error                   { return nil }

// RedisHighlightCache stores the JSON-encoded list with a TTL.
type RedisHighlightCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("Redis connected", slog.String("addr", addr))
	return client, nil
}

// NewRedisHighlightCache creates a new RedisHighlightCache
func NewRedisHighlightCache(client *redis.Client, ttl time.Duration) *RedisHighlightCache {
	return &RedisHighlightCache{client: client, ttl: ttl}
}

func key(day string) string {
	return "highlights:current:" + day
}

func (c *RedisHighlightCache) Get(ctx context.Context, day string) ([]models.DailyHighlight, bool, error) {
	raw, err := c.client.Get(ctx, key(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []models.DailyHighlight
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *RedisHighlightCache) Set(ctx context.Context, day string, highlights []models.DailyHighlight) error {
	raw, err := json.Marshal(highlights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(day), raw, c.ttl).Err()
}

func (c *RedisHighlightCache) Invalidate(ctx context.Context, day string) error {
	return c.client.Del(ctx, key(day)).Err()
}
