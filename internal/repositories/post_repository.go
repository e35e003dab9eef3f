package repositories

import (
	"context"

	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post and project persistence.
// Counter columns are owned by the interaction and comment repositories.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
}

// PostgresPostRepository implements PostRepository with gorm.
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	// Counters start at zero regardless of the payload.
	post.LikesCount, post.CommentsCount, post.BookmarksCount, post.EngagementScore = 0, 0, 0, 0
	return mapError(r.db.WithContext(ctx).Create(post).Error, "post", post.ID)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error; err != nil {
		return nil, mapError(err, "post", id)
	}
	return &post, nil
}

func (r *PostgresPostRepository) CreateProject(ctx context.Context, project *models.Project) error {
	project.StarCount = 0
	return mapError(r.db.WithContext(ctx).Create(project).Error, "project", project.ID)
}

func (r *PostgresPostRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&project).Error; err != nil {
		return nil, mapError(err, "project", id)
	}
	return &project, nil
}
