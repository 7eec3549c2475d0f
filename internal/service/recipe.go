package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// RecipeService owns the recipe aggregate: the nested write path
// (recipe + tag set + ingredient amounts in one transaction) and the
// viewer-relative read projection.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// validateWrite checks the nested-write rules in their fixed order and
// reports the first violation.
func validateWrite(tags []uuid.UUID, ingredients []types.IngredientAmount, cookingTime int) error {
	if len(tags) == 0 {
		return validationError("at least one tag required")
	}
	if len(ingredients) == 0 {
		return validationError("at least one ingredient required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, entry := range ingredients {
		if _, dup := seen[entry.ID]; dup {
			return validationError("duplicate ingredient in recipe")
		}
		seen[entry.ID] = struct{}{}
	}
	if cookingTime < 1 {
		return validationError("cooking time must be at least 1")
	}
	for _, entry := range ingredients {
		if entry.Amount < 1 {
			return validationError("ingredient amount must be at least 1")
		}
	}
	return nil
}

// resolveTags maps tag ids to rows, failing with a not-found error
// naming the first missing id.
func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]struct{}, len(tags))
	for _, tag := range tags {
		found[tag.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, notFoundf("tag %s", id)
		}
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, entries []types.IngredientAmount) ([]models.RecipeIngredient, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	rows := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		ing, ok := byID[entry.ID]
		if !ok {
			return nil, notFoundf("ingredient %s", entry.ID)
		}
		rows = append(rows, models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       entry.Amount,
			Ingredient:   ing,
		})
	}
	return rows, nil
}

// Create persists a recipe with its tag set and ingredient amounts
// atomically. The author is the authenticated caller, never payload data.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if err := validateWrite(req.Tags, req.Ingredients, req.CookingTime); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	rows, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = s.images.Store(ctx, req.Image)
		if err != nil {
			return nil, validationError("invalid image data")
		}
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Image:       imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		AuthorID:    authorID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID, &authorID)
}

// Get returns the full read projection of one recipe for an optional viewer.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := recipeProjection(s.db.WithContext(ctx), recipe, viewer)
	return &resp, nil
}

func (s *RecipeService) load(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundf("recipe %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns recipe projections matching the filter, newest first.
func (s *RecipeService) List(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC")

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if viewer != nil {
		if filter.IsFavorited {
			query = query.
				Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
				Where("favorites.user_id = ?", *viewer)
		}
		if filter.IsInShoppingCart {
			query = query.
				Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
				Where("shopping_carts.user_id = ?", *viewer)
		}
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	result := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		result = append(result, recipeProjection(s.db.WithContext(ctx), &recipes[i], viewer))
	}
	return result, nil
}

// Update applies a partial update. Only the author may update; tag and
// ingredient sets, when supplied, are replaced wholesale inside the
// same transaction as the scalar changes.
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	recipe, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrForbidden
	}

	tags := req.Tags
	if tags == nil {
		tags = tagIDs(recipe.Tags)
	}
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = ingredientAmounts(recipe.Ingredients)
	}
	cookingTime := recipe.CookingTime
	if req.CookingTime != nil {
		cookingTime = *req.CookingTime
	}
	if err := validateWrite(tags, ingredients, cookingTime); err != nil {
		return nil, err
	}

	newTags, err := s.resolveTags(ctx, tags)
	if err != nil {
		return nil, err
	}
	rows, err := s.resolveIngredients(ctx, ingredients)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	recipe.CookingTime = cookingTime
	if req.Image != nil && *req.Image != "" {
		imageURL, err := s.images.Store(ctx, *req.Image)
		if err != nil {
			return nil, validationError("invalid image data")
		}
		recipe.Image = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(newTags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID, &callerID)
}

// Delete removes a recipe and cascades to its ingredient amounts,
// favorites and shopping-cart rows. Author or admin only.
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID uuid.UUID) error {
	recipe, err := s.load(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != callerID {
		var caller models.User
		if err := s.db.WithContext(ctx).First(&caller, "id = ?", callerID).Error; err != nil {
			return ErrForbidden
		}
		if !caller.IsAdmin {
			return ErrForbidden
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func tagIDs(tags []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func ingredientAmounts(rows []models.RecipeIngredient) []types.IngredientAmount {
	entries := make([]types.IngredientAmount, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, types.IngredientAmount{ID: row.IngredientID, Amount: row.Amount})
	}
	return entries
}
