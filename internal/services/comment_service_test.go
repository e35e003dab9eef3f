package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddCommentNotifiesAuthor(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedProfile(t, e.db, "bob")
	testutil.SeedPost(t, e.db, "p1", "author")

	c, err := e.comments.AddComment(ctx, session("bob"), "p1", models.CreateCommentRequest{Content: "  great post  "})
	require.NoError(t, err)
	assert.Equal(t, "great post", c.Content)
	assert.True(t, testNow.Equal(c.CreatedAt))

	inbox := e.inboxOf(t, "author")
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyComment, inbox[0].Type)
	assert.Equal(t, "p1", inbox[0].EntityID)

	published := e.publisher.byChange(events.ChangeComment)
	require.Len(t, published, 1)
	assert.Equal(t, int64(1), published[0].Counts["comments_count"])
	assert.Equal(t, int64(models.CommentWeight), published[0].Counts["engagement_score"])
}

func TestCommentService_ReplyNotifiesParentAuthor(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	for _, id := range []string{"author", "bob", "carol"} {
		testutil.SeedProfile(t, e.db, id)
	}
	testutil.SeedPost(t, e.db, "p1", "author")

	parent, err := e.comments.AddComment(ctx, session("bob"), "p1", models.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)

	_, err = e.comments.AddComment(ctx, session("carol"), "p1", models.CreateCommentRequest{
		ParentID: &parent.ID,
		Content:  "reply",
	})
	require.NoError(t, err)

	inbox := e.inboxOf(t, "bob")
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyReply, inbox[0].Type)
	assert.Equal(t, "carol", inbox[0].ActorID)

	// Only bob's top-level comment reached the post author.
	assert.Len(t, e.inboxOf(t, "author"), 1)

	list, err := e.comments.ListComments(ctx, "p1", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
}

func TestCommentService_OwnPostDoesNotNotify(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedPost(t, e.db, "p1", "author")

	_, err := e.comments.AddComment(ctx, session("author"), "p1", models.CreateCommentRequest{Content: "bump"})
	require.NoError(t, err)
	assert.Empty(t, e.inboxOf(t, "author"))
}

func TestCommentService_Errors(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	testutil.SeedProfile(t, e.db, "author")
	testutil.SeedPost(t, e.db, "p1", "author")
	testutil.SeedPost(t, e.db, "p2", "author")

	other, err := e.comments.AddComment(ctx, session("author"), "p2", models.CreateCommentRequest{Content: "elsewhere"})
	require.NoError(t, err)
	missing := uuid.NewString()

	tests := []struct {
		name    string
		session models.Session
		postID  string
		req     models.CreateCommentRequest
		wantErr error
	}{
		{name: "guest", session: models.Guest(), postID: "p1", req: models.CreateCommentRequest{Content: "hi"}, wantErr: models.ErrUnauthorized},
		{name: "empty", session: session("author"), postID: "p1", req: models.CreateCommentRequest{Content: "   "}, wantErr: models.ErrValidation},
		{name: "too long", session: session("author"), postID: "p1", req: models.CreateCommentRequest{Content: strings.Repeat("a", 501)}, wantErr: models.ErrValidation},
		{name: "missing post", session: session("author"), postID: "nope", req: models.CreateCommentRequest{Content: "hi"}, wantErr: models.ErrNotFound},
		{name: "missing parent", session: session("author"), postID: "p1", req: models.CreateCommentRequest{ParentID: &missing, Content: "hi"}, wantErr: models.ErrNotFound},
		{name: "parent on another post", session: session("author"), postID: "p1", req: models.CreateCommentRequest{ParentID: &other.ID, Content: "hi"}, wantErr: models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.comments.AddComment(ctx, tt.session, tt.postID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var post models.Post
	require.NoError(t, e.db.Where("id = ?", "p1").Take(&post).Error)
	assert.Zero(t, post.CommentsCount)
	assert.Zero(t, post.EngagementScore)
}
