package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
)

// HighlightRepository defines the interface for daily highlight operations
type HighlightRepository interface {
	InsertIfAbsent(ctx context.Context, h *models.DailyHighlight) (bool, error)
	ListByPostedDates(ctx context.Context, dates []string) ([]models.DailyHighlight, error)
}

// PostgresHighlightRepository implements HighlightRepository with gorm.
type PostgresHighlightRepository struct {
	db *gorm.DB
}

// NewPostgresHighlightRepository creates a new PostgresHighlightRepository
func NewPostgresHighlightRepository(db *gorm.DB) *PostgresHighlightRepository {
	return &PostgresHighlightRepository{db: db}
}

// InsertIfAbsent stores h unless the author already has a row for
// h.PostedDate. The unique index decides between concurrent writers.
func (r *PostgresHighlightRepository) InsertIfAbsent(ctx context.Context, h *models.DailyHighlight) (bool, error) {
	created, err := insertIfAbsent(r.db.WithContext(ctx), h)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, mapError(err, "highlight", h.AuthorID)
	}
	return created, nil
}

// ListByPostedDates returns highlights posted on any of dates, newest first.
func (r *PostgresHighlightRepository) ListByPostedDates(ctx context.Context, dates []string) ([]models.DailyHighlight, error) {
	var out []models.DailyHighlight
	err := r.db.WithContext(ctx).
		Where("posted_date IN ?", dates).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err, "highlights", "current")
	}
	return out, nil
}
