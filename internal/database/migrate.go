package database

import (
	"gorm.io/gorm"

	"github.com/chefmate/backend/internal/models"
)

// RunMigrations brings the archive schema up to date.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ChatSession{},
		&models.ChatEntry{},
	)
}
