package repositories

import (
	"context"

	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) (post models.Post, parent *models.Comment, err error)
	GetCommentsByPostID(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error)
}

type postgresCommentRepository struct {
	db *gorm.DB
}

func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

// CreateComment inserts the comment and bumps the post's comment counter and
// engagement score in one transaction. It returns the post with its updated
// counters and, for replies, the parent comment.
func (r *postgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (models.Post, *models.Comment, error) {
	var (
		post   models.Post
		parent *models.Comment
	)
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", comment.PostID).Take(&post).Error; err != nil {
			return err
		}
		if comment.ParentID != nil {
			var p models.Comment
			if err := tx.Where("id = ? AND post_id = ?", *comment.ParentID, comment.PostID).Take(&p).Error; err != nil {
				return err
			}
			parent = &p
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := bumpPost(tx, comment.PostID, "comments_count", 1, models.CommentWeight); err != nil {
			return err
		}
		return tx.Where("id = ?", comment.PostID).Take(&post).Error
	})
	if err != nil {
		return models.Post{}, nil, mapError(err, "post", comment.PostID)
	}
	return post, parent, nil
}

func (r *postgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, mapError(err, "post", postID)
	}
	return comments, nil
}
