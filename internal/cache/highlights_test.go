package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopHighlightCache_NeverHits(t *testing.T) {
	t.Parallel()

	var c NopHighlightCache
	require.NoError(t, c.Set(context.Background(), "2026-10-19", []models.DailyHighlight{{ID: "h1"}}))
	_, ok, err := c.Get(context.Background(), "2026-10-19")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisHighlightCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping test - REDIS_ADDR not configured")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisHighlightCache(client, time.Minute)
	day := "test-" + time.Now().Format(time.RFC3339Nano)

	_, ok, err := c.Get(ctx, day)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, day, []models.DailyHighlight{{ID: "h1", Content: "shipped 🚀"}}))
	got, ok, err := c.Get(ctx, day)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shipped 🚀", got[0].Content)

	require.NoError(t, c.Invalidate(ctx, day))
	_, ok, err = c.Get(ctx, day)
	require.NoError(t, err)
	assert.False(t, ok)
}
