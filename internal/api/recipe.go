package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram-v2/backend/internal/middleware"
	"github.com/pageza/foodgram-v2/backend/internal/service"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// RecipeHandler serves the recipe collection plus the per-recipe
// favorite and shopping-cart toggles and the shopping list download.
type RecipeHandler struct {
	recipes      *service.RecipeService
	interactions *service.InteractionService
	shoppingList *service.ShoppingListService
	auth         middleware.TokenValidator
}

func NewRecipeHandler(recipes *service.RecipeService, interactions *service.InteractionService, shoppingList *service.ShoppingListService, auth middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		interactions: interactions,
		shoppingList: shoppingList,
		auth:         auth,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.AuthOptional(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthRequired(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.AuthOptional(h.auth), h.GetRecipe)

		recipes.POST("", middleware.AuthRequired(h.auth), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthRequired(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthRequired(h.auth), h.DeleteRecipe)

		recipes.POST("/:id/favorite", middleware.AuthRequired(h.auth), h.AddFavorite)
		recipes.DELETE("/:id/favorite", middleware.AuthRequired(h.auth), h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthRequired(h.auth), h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
		Limit:            intQuery(c, "limit"),
		Offset:           intQuery(c, "offset"),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}

	recipes, err := h.recipes.List(c.Request.Context(), middleware.Viewer(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addInteraction(c, h.interactions.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeInteraction(c, h.interactions.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addInteraction(c, h.interactions.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeInteraction(c, h.interactions.RemoveFromShoppingCart)
}

// DownloadShoppingCart renders the caller's consolidated shopping list
// as a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.shoppingList.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}

func (h *RecipeHandler) addInteraction(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeInteraction(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}
