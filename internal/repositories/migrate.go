package repositories

import (
	"storefront/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables of every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Favorite{},
		&models.ViewHistory{},
		&models.Review{},
		&models.PasswordReset{},
	)
}
