package models

import "time"

// TargetType names the variant of an interaction target.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetProject TargetType = "project"
	TargetProfile TargetType = "user"
)

// Engagement weights.
const (
	LikeWeight     = 1
	CommentWeight  = 2
	BookmarkWeight = 3
)

// Post is a feed entry carrying the like/comment/bookmark counters.
type Post struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	AuthorID        string    `json:"author_id" gorm:"size:128;not null;index"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	LikesCount      int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount   int64     `json:"comments_count" gorm:"not null;default:0"`
	BookmarksCount  int64     `json:"bookmarks_count" gorm:"not null;default:0"`
	EngagementScore int64     `json:"engagement_score" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Counts returns the counter set exposed to clients.
func (p Post) Counts() map[string]int64 {
	return map[string]int64{
		"likes_count":      p.LikesCount,
		"comments_count":   p.CommentsCount,
		"bookmarks_count":  p.BookmarksCount,
		"engagement_score": p.EngagementScore,
	}
}

// Project is a showcased repository that can be starred.
type Project struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	OwnerID   string    `json:"owner_id" gorm:"size:128;not null;index"`
	Name      string    `json:"name"`
	StarCount int64     `json:"star_count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Counts returns the counter set exposed to clients.
func (p Project) Counts() map[string]int64 {
	return map[string]int64{"star_count": p.StarCount}
}

// PostEngagement is the read-only engagement view of a post.
type PostEngagement struct {
	PostID    string `json:"post_id"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Bookmarks int64  `json:"bookmarks"`
	Score     int64  `json:"score"`
}

// EngagementOf derives the engagement view from a post row.
func EngagementOf(p Post) PostEngagement {
	return PostEngagement{
		PostID:    p.ID,
		Likes:     p.LikesCount,
		Comments:  p.CommentsCount,
		Bookmarks: p.BookmarksCount,
		Score:     p.EngagementScore,
	}
}

// Target is the typed view of whatever an interaction points at.
type Target struct {
	Type    TargetType
	ID      string
	OwnerID string
	Counts  map[string]int64
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"max=10000"`
}

// CreateProjectRequest defines the request body for creating a project
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
