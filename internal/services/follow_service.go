package services

import (
	"context"
	"fmt"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
)

// FollowService is the follow/unfollow face of the interaction engine.
type FollowService struct {
	interactions *InteractionService
	repo         repositories.InteractionRepository
}

// NewFollowService creates a new FollowService
func NewFollowService(interactions *InteractionService, repo repositories.InteractionRepository) *FollowService {
	return &FollowService{interactions: interactions, repo: repo}
}

// Follow makes the caller follow targetUserID. Repeating it is a no-op; only
// a new relation notifies the followed user.
func (s *FollowService) Follow(ctx context.Context, session models.Session, targetUserID string) (bool, error) {
	change, err := s.interactions.set(ctx, session, models.KindFollow, targetUserID, true)
	if err != nil {
		return false, err
	}
	return change.State, nil
}

// Unfollow removes the relation if present.
func (s *FollowService) Unfollow(ctx context.Context, session models.Session, targetUserID string) (bool, error) {
	change, err := s.interactions.set(ctx, session, models.KindFollow, targetUserID, false)
	if err != nil {
		return false, err
	}
	return change.State, nil
}

// IsFollowing reports whether followerID follows targetUserID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetUserID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, followerID, models.KindFollow, targetUserID)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return ok, nil
}

// Followers lists who follows userID.
func (s *FollowService) Followers(ctx context.Context, userID string, page, limit int) ([]models.Profile, error) {
	page, limit = normalizePage(page, limit)
	users, err := s.repo.ListFollowers(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

// Following lists who userID follows.
func (s *FollowService) Following(ctx context.Context, userID string, page, limit int) ([]models.Profile, error) {
	page, limit = normalizePage(page, limit)
	users, err := s.repo.ListFollowing(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}
