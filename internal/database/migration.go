package database

import (
	"fmt"

	"github.com/c-victorino/dishcord-web-app/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs content-store schema migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Post{},
		&models.Category{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
