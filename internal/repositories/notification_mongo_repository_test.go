package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoNotificationRepository(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("Skipping test - MONGO_URI not configured")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("devhub_test_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	repo := repositories.NewMongoNotificationRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	older := seedNotification(t, repo, "bob", base)
	newer := seedNotification(t, repo, "bob", base.Add(time.Minute))
	seedNotification(t, repo, "carol", base)

	list, total, err := repo.GetByRecipientID(ctx, "bob", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.RecipientID)

	require.NoError(t, repo.MarkAsRead(ctx, older.ID))
	unread, err := repo.GetUnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err := repo.MarkAllAsRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.MarkAsRead(ctx, "missing"), models.ErrNotFound)

	dup := older
	assert.ErrorIs(t, repo.CreateNotification(ctx, &dup), models.ErrConflict)
}
