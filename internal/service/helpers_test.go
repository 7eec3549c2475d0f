package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/service"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// newTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps the in-memory store alive for the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newRecipeService(t *testing.T, db *gorm.DB) *service.RecipeService {
	t.Helper()
	images := service.NewImageService(nil, t.TempDir(), "/media")
	return service.NewRecipeService(db, images)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

// createRecipe persists a minimal valid recipe through the service.
func createRecipe(t *testing.T, db *gorm.DB, svc *service.RecipeService, author *models.User, name string, tag *models.Tag, entries ...types.IngredientAmount) *types.RecipeResponse {
	t.Helper()
	recipe, err := svc.Create(context.Background(), author.ID, &types.CreateRecipeRequest{
		Name:        name,
		Text:        "Stir and serve.",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: entries,
	})
	require.NoError(t, err)
	return recipe
}
