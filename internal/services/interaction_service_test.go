package services_test

import (
	"context"
	"testing"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionService_ToggleRoundTrip(t *testing.T) {
	t.Parallel()

	for _, kind := range []models.InteractionKind{models.KindLike, models.KindBookmark} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)
			ctx := context.Background()
			testutil.SeedProfile(t, e.db, "author")
			testutil.SeedProfile(t, e.db, "fan")
			testutil.SeedPost(t, e.db, "p1", "author")

			on, err := e.interactions.Toggle(ctx, session("fan"), kind, "p1", false)
			require.NoError(t, err)
			assert.True(t, on.State)
			assert.Equal(t, int64(1), on.Counts[kind.CounterField()])

			off, err := e.interactions.Toggle(ctx, session("fan"), kind, "p1", true)
			require.NoError(t, err)
			assert.False(t, off.State)
			assert.Equal(t, int64(0), off.Counts[kind.CounterField()])
			assert.Equal(t, int64(0), off.Counts["engagement_score"])
			assert.Zero(t, e.countRows(t, &models.Interaction{}))
		})
	}
}

func TestInteractionService_StaleObservedStateIsIdempotent(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "fan")
	testutil.SeedPost(t, e.db, "p1", "author")

	_, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)

	// A second client still believes the post is unliked.
	again, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)
	assert.True(t, again.State)
	assert.Equal(t, int64(1), again.Counts["likes_count"])
	assert.Equal(t, int64(1), e.countRows(t, &models.Interaction{}))
	assert.Len(t, e.inboxOf(t, "author"), 1)

	// And the same for a stale "liked" belief after an unlike.
	_, err = e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", true)
	require.NoError(t, err)
	gone, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", true)
	require.NoError(t, err)
	assert.False(t, gone.State)
	assert.Equal(t, int64(0), gone.Counts["likes_count"])
}

func TestInteractionService_EngagementScore(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "a")
	testutil.SeedProfile(t, e.db, "b")
	testutil.SeedPost(t, e.db, "p1", "author")

	for _, u := range []string{"a", "b"} {
		_, err := e.interactions.Toggle(ctx, session(u), models.KindLike, "p1", false)
		require.NoError(t, err)
	}
	_, err := e.interactions.Toggle(ctx, session("a"), models.KindBookmark, "p1", false)
	require.NoError(t, err)
	_, err = e.comments.AddComment(ctx, session("b"), "p1", models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	got, err := e.interactions.Engagement(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PostEngagement{PostID: "p1", Likes: 2, Comments: 1, Bookmarks: 1, Score: 2*1 + 1*2 + 1*3}, got)

	_, err = e.interactions.Toggle(ctx, session("a"), models.KindBookmark, "p1", true)
	require.NoError(t, err)
	got, err = e.interactions.Engagement(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Score)
}

func TestInteractionService_Notifications(t *testing.T) {
	t.Parallel()

	t.Run("like notifies the author", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		ctx := context.Background()
		testutil.SeedProfile(t, e.db, "author")
		testutil.SeedProfile(t, e.db, "fan")
		testutil.SeedPost(t, e.db, "p1", "author")

		_, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
		require.NoError(t, err)

		inbox := e.inboxOf(t, "author")
		require.Len(t, inbox, 1)
		assert.Equal(t, models.NotifyLike, inbox[0].Type)
		assert.Equal(t, "fan", inbox[0].ActorID)
		assert.Equal(t, models.TargetPost, inbox[0].EntityType)
		assert.Equal(t, "p1", inbox[0].EntityID)
		assert.Equal(t, "User fan liked your post", inbox[0].Message)
		assert.False(t, inbox[0].IsRead)
		assert.True(t, testNow.Equal(inbox[0].CreatedAt))
	})

	t.Run("unlike does not retract", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		ctx := context.Background()
		testutil.SeedProfile(t, e.db, "author")
		testutil.SeedProfile(t, e.db, "fan")
		testutil.SeedPost(t, e.db, "p1", "author")

		_, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
		require.NoError(t, err)
		_, err = e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", true)
		require.NoError(t, err)
		assert.Len(t, e.inboxOf(t, "author"), 1)
	})

	t.Run("own post produces nothing", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		ctx := context.Background()
		testutil.SeedProfile(t, e.db, "author")
		testutil.SeedPost(t, e.db, "p1", "author")

		for _, kind := range []models.InteractionKind{models.KindLike, models.KindBookmark} {
			res, err := e.interactions.Toggle(ctx, session("author"), kind, "p1", false)
			require.NoError(t, err)
			assert.True(t, res.State)
		}
		assert.Empty(t, e.inboxOf(t, "author"))
	})

	t.Run("star notifies the project owner", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		ctx := context.Background()
		testutil.SeedProfile(t, e.db, "owner")
		testutil.SeedProfile(t, e.db, "fan")
		testutil.SeedProject(t, e.db, "proj", "owner")

		res, err := e.interactions.Toggle(ctx, session("fan"), models.KindStar, "proj", false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Counts["star_count"])

		inbox := e.inboxOf(t, "owner")
		require.Len(t, inbox, 1)
		assert.Equal(t, models.NotifyLike, inbox[0].Type)
		assert.Equal(t, models.TargetProject, inbox[0].EntityType)
		assert.Equal(t, "User fan starred your project", inbox[0].Message)
	})

	t.Run("bookmark notifies the author", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		ctx := context.Background()
		testutil.SeedProfile(t, e.db, "author")
		testutil.SeedProfile(t, e.db, "fan")
		testutil.SeedPost(t, e.db, "p1", "author")

		_, err := e.interactions.Toggle(ctx, session("fan"), models.KindBookmark, "p1", false)
		require.NoError(t, err)
		inbox := e.inboxOf(t, "author")
		require.Len(t, inbox, 1)
		assert.Equal(t, models.NotifyBookmark, inbox[0].Type)
	})
}

func TestInteractionService_NotificationFailureDoesNotFailToggle(t *testing.T) {
	t.Parallel()
	e := newEnv(t, withInbox(func(r repositories.NotificationRepository) repositories.NotificationRepository {
		return failingInbox{r}
	}))
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "fan")
	testutil.SeedPost(t, e.db, "p1", "author")

	res, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)
	assert.True(t, res.State)
	assert.Equal(t, int64(1), res.Counts["likes_count"])
	assert.Empty(t, e.inboxOf(t, "author"))
}

func TestInteractionService_Errors(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedPost(t, e.db, "p1", "author")

	tests := []struct {
		name     string
		session  models.Session
		kind     models.InteractionKind
		targetID string
		wantErr  error
	}{
		{name: "guest", session: models.Guest(), kind: models.KindLike, targetID: "p1", wantErr: models.ErrUnauthorized},
		{name: "unknown kind", session: session("author"), kind: "clap", targetID: "p1", wantErr: models.ErrValidation},
		{name: "blank target", session: session("author"), kind: models.KindLike, targetID: "  ", wantErr: models.ErrValidation},
		{name: "missing post", session: session("author"), kind: models.KindLike, targetID: "nope", wantErr: models.ErrNotFound},
		{name: "post id used as project", session: session("author"), kind: models.KindStar, targetID: "p1", wantErr: models.ErrNotFound},
		{name: "self follow", session: session("author"), kind: models.KindFollow, targetID: "author", wantErr: models.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.interactions.Toggle(ctx, tt.session, tt.kind, tt.targetID, false)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, e.countRows(t, &models.Interaction{}))
}

func TestInteractionService_Status(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "fan")
	testutil.SeedPost(t, e.db, "p1", "author")

	_, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)

	mine, err := e.interactions.Status(ctx, session("fan"), models.KindLike, "p1")
	require.NoError(t, err)
	assert.True(t, mine.State)
	assert.Equal(t, int64(1), mine.Counts["likes_count"])

	guest, err := e.interactions.Status(ctx, models.Guest(), models.KindLike, "p1")
	require.NoError(t, err)
	assert.False(t, guest.State)
	assert.Equal(t, int64(1), guest.Counts["likes_count"])

	_, err = e.interactions.Status(ctx, session("fan"), models.KindLike, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInteractionService_PublishesOnlyRealChanges(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "fan")
	testutil.SeedPost(t, e.db, "p1", "author")

	_, err := e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)
	_, err = e.interactions.Toggle(ctx, session("fan"), models.KindLike, "p1", false)
	require.NoError(t, err)

	changes := e.publisher.byChange(events.ChangeInteraction)
	require.Len(t, changes, 1)
	assert.Equal(t, "p1", changes[0].EntityID)
	assert.Equal(t, models.KindLike, changes[0].InteractionKind)
	assert.True(t, changes[0].Active)
	assert.Equal(t, int64(1), changes[0].Counts["likes_count"])
}
