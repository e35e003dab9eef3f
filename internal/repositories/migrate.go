package repositories

import (
	"github.com/anonto42/devhub/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the store owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Post{},
		&models.Project{},
		&models.Interaction{},
		&models.Comment{},
		&models.Notification{},
		&models.DailyHighlight{},
	)
}
