package repositories

import (
	"context"

	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for profile data operations
type UserRepository interface {
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetUserByID(ctx context.Context, id string) (*models.Profile, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// UpsertProfile creates the profile or updates its display fields. Follow
// counters are never written here.
func (r *PostgresUserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "avatar_url", "updated_at"}),
	}).Omit("followers_count", "following_count").Create(profile).Error
	return mapError(err, "profile", profile.ID)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, mapError(err, "profile", id)
	}
	return &p, nil
}

// GetUsersByIDs loads profiles keyed by id; unknown ids are skipped.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, mapError(err, "profiles", "batch")
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}
