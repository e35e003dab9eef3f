package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Profile is the follow target and the owner record of a principal.
type Profile struct {
	ID             string    `json:"id" gorm:"primaryKey;size:128"` // Firebase UID or local user id
	Username       string    `json:"username" gorm:"size:50;uniqueIndex"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	FollowersCount int64     `json:"followers_count" gorm:"not null;default:0"`
	FollowingCount int64     `json:"following_count" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Counts returns the counter set exposed to clients.
func (p Profile) Counts() map[string]int64 {
	return map[string]int64{
		"followers_count": p.FollowersCount,
		"following_count": p.FollowingCount,
	}
}

// UserCompact is the actor summary embedded in notification listings.
type UserCompact struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// ToCompact trims a profile down to its listing summary.
func (p Profile) ToCompact() UserCompact {
	return UserCompact{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UpdateProfileRequest defines the request body for updating the caller's profile
type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	DisplayName string `json:"display_name" validate:"max=100"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}
