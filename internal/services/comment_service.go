package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/validators"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// CommentService adds comments and replies to posts.
type CommentService struct {
	comments  repositories.CommentRepository
	notifier  Notifier
	publisher events.Publisher
	validate  *validator.Validate
	clock     clockwork.Clock
	log       *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	log *slog.Logger,
	clock clockwork.Clock,
	comments repositories.CommentRepository,
	notifier Notifier,
	publisher events.Publisher,
) *CommentService {
	return &CommentService{
		comments:  comments,
		notifier:  notifier,
		publisher: publisher,
		validate:  validators.New(),
		clock:     clock,
		log:       log.With("service", "comment"),
	}
}

// AddComment stores a comment (or a reply when req.ParentID is set) and
// notifies the post author, or the parent comment's author for replies.
func (s *CommentService) AddComment(ctx context.Context, session models.Session, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	if session.IsGuest() {
		return nil, models.ErrUnauthorized
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validators.Struct(s.validate, req); err != nil {
		return nil, err
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  session.PrincipalID,
		ParentID:  req.ParentID,
		Content:   req.Content,
		CreatedAt: s.clock.Now().UTC(),
	}
	post, parent, err := s.comments.CreateComment(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	in := NotifyInput{
		RecipientID: post.AuthorID,
		ActorID:     c.AuthorID,
		Type:        models.NotifyComment,
		EntityType:  models.TargetPost,
		EntityID:    post.ID,
	}
	if parent != nil {
		in.RecipientID = parent.AuthorID
		in.Type = models.NotifyReply
	}
	s.notifier.Dispatch(ctx, in)

	if err := s.publisher.Publish(ctx, events.EntityChanged{
		Change:     events.ChangeComment,
		EntityType: models.TargetPost,
		EntityID:   post.ID,
		ActorID:    c.AuthorID,
		Counts:     post.Counts(),
		OccurredAt: c.CreatedAt,
	}); err != nil {
		s.log.WarnContext(ctx, "event publish failed", slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "comment added",
		slog.String("user_id", c.AuthorID),
		slog.String("post_id", postID),
		slog.Bool("reply", parent != nil),
	)
	return c, nil
}

// ListComments returns a page of a post's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID string, page, limit int) ([]models.Comment, error) {
	page, limit = normalizePage(page, limit)
	comments, err := s.comments.GetCommentsByPostID(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
