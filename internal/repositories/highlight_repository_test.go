package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightRepository_OnePerAuthorPerDay(t *testing.T) {
	t.Parallel()

	repo := repositories.NewPostgresHighlightRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	first := &models.DailyHighlight{ID: uuid.NewString(), AuthorID: "alice", Content: "one", PostedDate: "2026-10-19", CreatedAt: now}
	created, err := repo.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &models.DailyHighlight{ID: uuid.NewString(), AuthorID: "alice", Content: "two", PostedDate: "2026-10-19", CreatedAt: now}
	created, err = repo.InsertIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	other := &models.DailyHighlight{ID: uuid.NewString(), AuthorID: "alice", Content: "three", PostedDate: "2026-10-20", CreatedAt: now.Add(24 * time.Hour)}
	created, err = repo.InsertIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestHighlightRepository_ListByPostedDates(t *testing.T) {
	t.Parallel()

	repo := repositories.NewPostgresHighlightRepository(testutil.NewDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	for i, d := range []string{"2026-10-17", "2026-10-18", "2026-10-19"} {
		_, err := repo.InsertIfAbsent(ctx, &models.DailyHighlight{
			ID:         uuid.NewString(),
			AuthorID:   "alice",
			Content:    d,
			PostedDate: d,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	got, err := repo.ListByPostedDates(ctx, []string{"2026-10-19", "2026-10-18"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-10-19", got[0].PostedDate)
	assert.Equal(t, "2026-10-18", got[1].PostedDate)
}
