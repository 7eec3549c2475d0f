package types

import (
	"github.com/google/uuid"
)

// IngredientAmount is one (ingredient, amount) entry of a recipe payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest is the write shape for POST /recipes. The author
// is never part of the payload; it comes from the authenticated caller.
// Tags, ingredients and cooking_time are validated in the service so
// each rule reports its own message.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required"`
	Image       string             `json:"image"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// UpdateRecipeRequest is the write shape for PATCH /recipes/:id.
// Nil pointers and nil slices mean "not supplied": scalar fields keep
// their value, tag/ingredient sets are left untouched. Supplied sets
// are always replaced wholesale, never merged.
type UpdateRecipeRequest struct {
	Name        *string            `json:"name"`
	Image       *string            `json:"image"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeFilter captures the recipe list query parameters.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
