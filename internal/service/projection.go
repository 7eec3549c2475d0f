package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// Viewer-relative projections. A nil viewer is an anonymous caller:
// every relational flag is false and the store is never queried.

func userProjection(db *gorm.DB, user *models.User, viewer *uuid.UUID) types.UserResponse {
	resp := types.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewer != nil {
		var count int64
		db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", *viewer, user.ID).
			Count(&count)
		resp.IsSubscribed = count > 0
	}
	return resp
}

func recipeProjection(db *gorm.DB, recipe *models.Recipe, viewer *uuid.UUID) types.RecipeResponse {
	resp := types.RecipeResponse{
		ID:          recipe.ID,
		Author:      userProjection(db, &recipe.Author, viewer),
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Tags:        make([]types.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]types.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
	}
	for _, tag := range recipe.Tags {
		resp.Tags = append(resp.Tags, types.TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}
	for _, ri := range recipe.Ingredients {
		resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	if viewer != nil {
		var count int64
		db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&count)
		resp.IsFavorited = count > 0

		count = 0
		db.Model(&models.ShoppingCart{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&count)
		resp.IsInShoppingCart = count > 0
	}
	return resp
}

func shortRecipeProjection(recipe *models.Recipe) types.ShortRecipeResponse {
	return types.ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
