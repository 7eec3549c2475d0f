package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram-v2/backend/internal/service"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

func createRecipeHTTP(t *testing.T, engine *gin.Engine, token string, body gin.H) types.RecipeResponse {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var recipe types.RecipeResponse
	decode(t, rec, &recipe)
	return recipe
}

func TestRecipeLifecycle(t *testing.T) {
	engine, db := newTestServer(t)
	token := registerUser(t, engine, "alice")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	recipe := createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 200}},
	})
	assert.Equal(t, "Cake", recipe.Name)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)

	// anonymous read
	rec := doJSON(t, engine, http.MethodGet, "/api/recipes/"+recipe.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.RecipeResponse
	decode(t, rec, &got)
	assert.Equal(t, recipe.ID, got.ID)
	assert.False(t, got.IsFavorited)

	// partial update
	rec = doJSON(t, engine, http.MethodPatch, "/api/recipes/"+recipe.ID.String(), token, gin.H{
		"name": "Better cake",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &got)
	assert.Equal(t, "Better cake", got.Name)
	assert.Equal(t, 60, got.CookingTime)

	// delete
	rec = doJSON(t, engine, http.MethodDelete, "/api/recipes/"+recipe.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes/"+recipe.ID.String(), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipeWriteRequiresAuth(t *testing.T) {
	engine, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/recipes", "", gin.H{"name": "Cake"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipeValidationError(t *testing.T) {
	engine, db := newTestServer(t)
	token := registerUser(t, engine, "alice")
	seedTag(t, db, "dinner")

	rec := doJSON(t, engine, http.MethodPost, "/api/recipes", token, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "at least one tag required", resp.Error)
}

func TestRecipeUpdateForbiddenForNonAuthor(t *testing.T) {
	engine, db := newTestServer(t)
	alice := registerUser(t, engine, "alice")
	bob := registerUser(t, engine, "bob")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	recipe := createRecipeHTTP(t, engine, alice, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 200}},
	})

	rec := doJSON(t, engine, http.MethodPatch, "/api/recipes/"+recipe.ID.String(), bob, gin.H{
		"name": "Stolen",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecipeInvalidIDIsBadRequest(t *testing.T) {
	engine, _ := newTestServer(t)
	token := registerUser(t, engine, "alice")

	rec := doJSON(t, engine, http.MethodGet, "/api/recipes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	engine, db := newTestServer(t)
	token := registerUser(t, engine, "alice")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	recipe := createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 200}},
	})

	path := "/api/recipes/" + recipe.ID.String() + "/favorite"

	rec := doJSON(t, engine, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var short types.ShortRecipeResponse
	decode(t, rec, &short)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Cake", short.Name)

	rec = doJSON(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	engine, db := newTestServer(t)
	token := registerUser(t, engine, "alice")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "Flour", "g")
	sugar := seedIngredient(t, db, "Sugar", "g")

	cake := createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients": []gin.H{
			{"id": flour.ID.String(), "amount": 200},
			{"id": sugar.ID.String(), "amount": 50},
		},
	})
	bread := createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Bread",
		"text":         "Bake it too.",
		"cooking_time": 90,
		"tags":         []string{tag.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 300}},
	})

	for _, id := range []string{cake.ID.String(), bread.ID.String()} {
		rec := doJSON(t, engine, http.MethodPost, "/api/recipes/"+id+"/shopping_cart", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), service.ShoppingListFilename)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Foodgram shopping list\n\nFlour (g) 500\nSugar (g) 50", rec.Body.String())

	// the download is caller-scoped
	rec = doJSON(t, engine, http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRecipesWithFilters(t *testing.T) {
	engine, db := newTestServer(t)
	token := registerUser(t, engine, "alice")
	dinner := seedTag(t, db, "dinner")
	lunch := seedTag(t, db, "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Cake",
		"text":         "Bake it.",
		"cooking_time": 60,
		"tags":         []string{dinner.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 200}},
	})
	createRecipeHTTP(t, engine, token, gin.H{
		"name":         "Soup",
		"text":         "Boil it.",
		"cooking_time": 30,
		"tags":         []string{lunch.ID.String()},
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 10}},
	})

	rec := doJSON(t, engine, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []types.RecipeResponse
	decode(t, rec, &all)
	assert.Len(t, all, 2)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes?tags=lunch", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered []types.RecipeResponse
	decode(t, rec, &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Soup", filtered[0].Name)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var limited []types.RecipeResponse
	decode(t, rec, &limited)
	assert.Len(t, limited, 1)
}
