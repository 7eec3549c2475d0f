package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Image       string         `gorm:"size:255" json:"image"`
	Text        string         `gorm:"type:text" json:"text"`
	CookingTime int            `gorm:"not null" json:"cooking_time"`
	AuthorID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"-"`

	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient holds the amount of one ingredient in one recipe.
// Rows are deleted and recreated wholesale on recipe update. The
// composite unique index backs the no-duplicate-ingredient rule.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int        `gorm:"not null" json:"amount"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
