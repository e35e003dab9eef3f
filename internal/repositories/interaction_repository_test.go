package repositories_test

import (
	"context"
	"testing"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionRepository_LikeMovesCounterAndScore(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedPost(t, db, "p1", "author")
	repo := repositories.NewPostgresInteractionRepository(db)
	ctx := context.Background()

	change, err := repo.Set(ctx, "alice", models.KindLike, "p1", true)
	require.NoError(t, err)
	assert.True(t, change.Changed)
	assert.True(t, change.State)
	assert.Equal(t, "author", change.Target.OwnerID)
	assert.Equal(t, int64(1), change.Target.Counts["likes_count"])
	assert.Equal(t, int64(models.LikeWeight), change.Target.Counts["engagement_score"])

	change, err = repo.Set(ctx, "alice", models.KindLike, "p1", false)
	require.NoError(t, err)
	assert.True(t, change.Changed)
	assert.False(t, change.State)
	assert.Equal(t, int64(0), change.Target.Counts["likes_count"])
	assert.Equal(t, int64(0), change.Target.Counts["engagement_score"])
}

func TestInteractionRepository_IdempotentPaths(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedPost(t, db, "p1", "author")
	repo := repositories.NewPostgresInteractionRepository(db)
	ctx := context.Background()

	_, err := repo.Set(ctx, "alice", models.KindBookmark, "p1", true)
	require.NoError(t, err)

	// Inserting a present tuple is a no-op success.
	change, err := repo.Set(ctx, "alice", models.KindBookmark, "p1", true)
	require.NoError(t, err)
	assert.False(t, change.Changed)
	assert.True(t, change.State)
	assert.Equal(t, int64(1), change.Target.Counts["bookmarks_count"])
	assert.Equal(t, int64(models.BookmarkWeight), change.Target.Counts["engagement_score"])

	var rows int64
	require.NoError(t, db.Model(&models.Interaction{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	_, err = repo.Set(ctx, "alice", models.KindBookmark, "p1", false)
	require.NoError(t, err)

	// Deleting an absent tuple is a no-op success.
	change, err = repo.Set(ctx, "alice", models.KindBookmark, "p1", false)
	require.NoError(t, err)
	assert.False(t, change.Changed)
	assert.False(t, change.State)
	assert.Equal(t, int64(0), change.Target.Counts["bookmarks_count"])
}

func TestInteractionRepository_MissingTarget(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := repositories.NewPostgresInteractionRepository(db)

	_, err := repo.Set(context.Background(), "alice", models.KindStar, "nope", true)
	require.ErrorIs(t, err, models.ErrNotFound)

	var rows int64
	require.NoError(t, db.Model(&models.Interaction{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestInteractionRepository_StarProject(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProject(t, db, "proj", "owner")
	repo := repositories.NewPostgresInteractionRepository(db)
	ctx := context.Background()

	change, err := repo.Set(ctx, "alice", models.KindStar, "proj", true)
	require.NoError(t, err)
	assert.Equal(t, models.TargetProject, change.Target.Type)
	assert.Equal(t, int64(1), change.Target.Counts["star_count"])

	ok, err := repo.Exists(ctx, "alice", models.KindStar, "proj")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInteractionRepository_FollowUpdatesBothProfiles(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "alice")
	testutil.SeedProfile(t, db, "bob")
	repo := repositories.NewPostgresInteractionRepository(db)
	ctx := context.Background()

	change, err := repo.Set(ctx, "alice", models.KindFollow, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), change.Target.Counts["followers_count"])

	var alice models.Profile
	require.NoError(t, db.Where("id = ?", "alice").Take(&alice).Error)
	assert.Equal(t, int64(1), alice.FollowingCount)

	followers, err := repo.ListFollowers(ctx, "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)

	following, err := repo.ListFollowing(ctx, "alice", 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].ID)

	_, err = repo.Set(ctx, "alice", models.KindFollow, "bob", false)
	require.NoError(t, err)
	require.NoError(t, db.Where("id = ?", "alice").Take(&alice).Error)
	assert.Zero(t, alice.FollowingCount)
}

func TestInteractionRepository_FollowByMissingProfile(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "alice")
	repo := repositories.NewPostgresInteractionRepository(db)

	_, err := repo.Set(context.Background(), "ghost", models.KindFollow, "alice", true)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "follower ghost")
	assert.NotContains(t, err.Error(), "alice")

	_, err = repo.Set(context.Background(), "alice", models.KindFollow, "nobody", true)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "user nobody")
}
