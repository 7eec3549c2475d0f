package database

import (
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every model, including
// the composite unique indexes backing membership-pair uniqueness.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Follow{},
	)
}
