package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// InteractionService drives the favorite and shopping-cart membership
// sets. Both share one pair state machine: absent -> present on add,
// present -> absent on remove, with every other transition rejected.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

func (s *InteractionService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error) {
	return s.add(ctx, userID, recipeID,
		&models.Favorite{UserID: userID, RecipeID: recipeID},
		"already in favorites")
}

func (s *InteractionService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.Favorite{}, "not in favorites")
}

func (s *InteractionService) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error) {
	return s.add(ctx, userID, recipeID,
		&models.ShoppingCart{UserID: userID, RecipeID: recipeID},
		"already in shopping cart")
}

func (s *InteractionService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.ShoppingCart{}, "not in shopping cart")
}

// add performs the absent -> present transition. The recipe must exist
// before the set is touched. The existence check is backed by the
// composite unique index, so a concurrent duplicate insert surfaces as
// a storage error and is reported as the same conflict.
func (s *InteractionService) add(ctx context.Context, userID, recipeID uuid.UUID, row interface{}, conflictMsg string) (*types.ShortRecipeResponse, error) {
	recipe, err := s.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, validationError(conflictMsg)
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		// lost the race against a concurrent add; the unique index
		// rejected the second row
		return nil, validationError(conflictMsg)
	}

	resp := shortRecipeProjection(recipe)
	return &resp, nil
}

// remove performs the present -> absent transition.
func (s *InteractionService) remove(ctx context.Context, userID, recipeID uuid.UUID, model interface{}, absentMsg string) error {
	if _, err := s.loadRecipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return validationError(absentMsg)
	}
	return nil
}

func (s *InteractionService) loadRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundf("recipe %s", recipeID)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}
