// Package testutil provides an in-memory store for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory SQLite database with the schema migrated.
// A single connection keeps the database alive and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedProfile inserts a profile with zero counters.
func SeedProfile(t *testing.T, db *gorm.DB, id string) models.Profile {
	t.Helper()
	p := models.Profile{ID: id, Username: id, DisplayName: "User " + id}
	if err := db.WithContext(context.Background()).Create(&p).Error; err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
	return p
}

// SeedPost inserts a post authored by authorID.
func SeedPost(t *testing.T, db *gorm.DB, id, authorID string) models.Post {
	t.Helper()
	p := models.Post{ID: id, AuthorID: authorID, Title: "post " + id, CreatedAt: time.Now().UTC()}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed post %s: %v", id, err)
	}
	return p
}

// SeedProject inserts a project owned by ownerID.
func SeedProject(t *testing.T, db *gorm.DB, id, ownerID string) models.Project {
	t.Helper()
	p := models.Project{ID: id, OwnerID: ownerID, Name: "project " + id}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed project %s: %v", id, err)
	}
	return p
}
