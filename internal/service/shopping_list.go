package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
)

// ShoppingListFilename is the attachment name for the downloaded report.
const ShoppingListFilename = "foodgram_shopping_list.txt"

const shoppingListHeader = "Foodgram shopping list"

// ShoppingListItem is one aggregated ingredient line.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService derives the consolidated ingredient report from
// a user's shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts across every recipe in the user's
// cart, grouped by (name, measurement unit). Only the requesting
// user's cart contributes; the order is fixed by ingredient name so a
// given snapshot always renders the same report.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render formats the report as plain text: a header line, a blank
// line, then one "{name} ({unit}) {amount}" row per item. No trailing
// newline.
func Render(items []ShoppingListItem) string {
	lines := make([]string, 0, len(items)+2)
	lines = append(lines, shoppingListHeader, "")
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) %d", item.Name, item.MeasurementUnit, item.Amount))
	}
	return strings.Join(lines, "\n")
}
