package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionChange reports the outcome of an insert-if-absent or
// delete-if-present on one (principal, target, kind) tuple.
type InteractionChange struct {
	Changed bool // false on the idempotent no-op path
	State   bool // server truth after the call
	Target  models.Target
}

// InteractionRepository defines the interface for interaction data operations
type InteractionRepository interface {
	Set(ctx context.Context, principalID string, kind models.InteractionKind, targetID string, active bool) (InteractionChange, error)
	Exists(ctx context.Context, principalID string, kind models.InteractionKind, targetID string) (bool, error)
	Target(ctx context.Context, kind models.InteractionKind, targetID string) (models.Target, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.Profile, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.Profile, error)
}

// PostgresInteractionRepository implements InteractionRepository with gorm.
type PostgresInteractionRepository struct {
	db *gorm.DB
}

// NewPostgresInteractionRepository creates a new PostgresInteractionRepository
func NewPostgresInteractionRepository(db *gorm.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

// Set drives the tuple to active. The row and the target counters change in
// the same transaction; counters are only touched when the row changed.
func (r *PostgresInteractionRepository) Set(ctx context.Context, principalID string, kind models.InteractionKind, targetID string, active bool) (InteractionChange, error) {
	var out InteractionChange

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if _, err := loadTarget(tx, kind.TargetType(), targetID); err != nil {
			return mapError(err, string(kind.TargetType()), targetID)
		}
		if kind == models.KindFollow {
			if _, err := loadTarget(tx, models.TargetProfile, principalID); err != nil {
				return mapError(err, "follower", principalID)
			}
		}

		var (
			changed bool
			err     error
		)
		if active {
			changed, err = insertIfAbsent(tx, &models.Interaction{
				PrincipalID: principalID,
				TargetID:    targetID,
				Kind:        kind,
			})
		} else {
			changed, err = deleteIfPresent(tx, &models.Interaction{},
				"principal_id = ? AND target_id = ? AND kind = ?", principalID, targetID, kind)
		}
		if err != nil {
			return err
		}

		if changed {
			delta := int64(1)
			if !active {
				delta = -1
			}
			if err := adjustCounters(tx, kind, principalID, targetID, delta); err != nil {
				return err
			}
		}

		target, err := loadTarget(tx, kind.TargetType(), targetID)
		if err != nil {
			return err
		}
		out = InteractionChange{Changed: changed, State: active, Target: target}
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return InteractionChange{}, err
	}
	if err != nil {
		return InteractionChange{}, mapError(err, string(kind.TargetType()), targetID)
	}
	return out, nil
}

// Exists checks whether the tuple is currently active.
func (r *PostgresInteractionRepository) Exists(ctx context.Context, principalID string, kind models.InteractionKind, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("principal_id = ? AND target_id = ? AND kind = ?", principalID, targetID, kind).
		Count(&count).Error
	if err != nil {
		return false, mapError(err, "interaction", targetID)
	}
	return count > 0, nil
}

// Target reads the typed target a kind applies to, with its counters.
func (r *PostgresInteractionRepository) Target(ctx context.Context, kind models.InteractionKind, targetID string) (models.Target, error) {
	t, err := loadTarget(r.db.WithContext(ctx), kind.TargetType(), targetID)
	if err != nil {
		return models.Target{}, mapError(err, string(kind.TargetType()), targetID)
	}
	return t, nil
}

// ListFollowers returns the profiles following userID, newest first.
func (r *PostgresInteractionRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.Profile, error) {
	var users []models.Profile
	err := r.db.WithContext(ctx).
		Select("profiles.*").
		Joins("JOIN interactions ON interactions.principal_id = profiles.id").
		Where("interactions.target_id = ? AND interactions.kind = ?", userID, models.KindFollow).
		Order("interactions.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, mapError(err, "profile", userID)
	}
	return users, nil
}

// ListFollowing returns the profiles userID follows, newest first.
func (r *PostgresInteractionRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.Profile, error) {
	var users []models.Profile
	err := r.db.WithContext(ctx).
		Select("profiles.*").
		Joins("JOIN interactions ON interactions.target_id = profiles.id").
		Where("interactions.principal_id = ? AND interactions.kind = ?", userID, models.KindFollow).
		Order("interactions.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, mapError(err, "profile", userID)
	}
	return users, nil
}

func loadTarget(tx *gorm.DB, typ models.TargetType, id string) (models.Target, error) {
	switch typ {
	case models.TargetPost:
		var p models.Post
		if err := tx.Where("id = ?", id).Take(&p).Error; err != nil {
			return models.Target{}, err
		}
		return models.Target{Type: typ, ID: p.ID, OwnerID: p.AuthorID, Counts: p.Counts()}, nil
	case models.TargetProject:
		var p models.Project
		if err := tx.Where("id = ?", id).Take(&p).Error; err != nil {
			return models.Target{}, err
		}
		return models.Target{Type: typ, ID: p.ID, OwnerID: p.OwnerID, Counts: p.Counts()}, nil
	case models.TargetProfile:
		var p models.Profile
		if err := tx.Where("id = ?", id).Take(&p).Error; err != nil {
			return models.Target{}, err
		}
		return models.Target{Type: typ, ID: p.ID, OwnerID: p.ID, Counts: p.Counts()}, nil
	}
	return models.Target{}, fmt.Errorf("unknown target type %q", typ)
}

func adjustCounters(tx *gorm.DB, kind models.InteractionKind, principalID, targetID string, delta int64) error {
	switch kind {
	case models.KindLike:
		return bumpPost(tx, targetID, "likes_count", delta, models.LikeWeight)
	case models.KindBookmark:
		return bumpPost(tx, targetID, "bookmarks_count", delta, models.BookmarkWeight)
	case models.KindStar:
		return tx.Model(&models.Project{}).Where("id = ?", targetID).
			UpdateColumn("star_count", gorm.Expr("star_count + ?", delta)).Error
	case models.KindFollow:
		if err := tx.Model(&models.Profile{}).Where("id = ?", targetID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("id = ?", principalID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error
	}
	return fmt.Errorf("unknown interaction kind %q", kind)
}

// bumpPost moves one post counter and the engagement score together.
func bumpPost(tx *gorm.DB, postID, column string, delta, weight int64) error {
	return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumns(map[string]any{
		column:             gorm.Expr(column+" + ?", delta),
		"engagement_score": gorm.Expr("engagement_score + ?", delta*weight),
	}).Error
}
