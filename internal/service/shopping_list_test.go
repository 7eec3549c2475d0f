package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram-v2/backend/internal/service"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

func TestAggregateSumsAcrossCartRecipes(t *testing.T) {
	db := newTestDB(t)
	recipes := newRecipeService(t, db)
	interactions := service.NewInteractionService(db)
	svc := service.NewShoppingListService(db)
	author := createUser(t, db, "author")
	tag := createTag(t, db, "dinner")
	flour := createIngredient(t, db, "Flour", "g")
	sugar := createIngredient(t, db, "Sugar", "g")

	cake := createRecipe(t, db, recipes, author, "Cake", tag,
		types.IngredientAmount{ID: flour.ID, Amount: 200},
		types.IngredientAmount{ID: sugar.ID, Amount: 50},
	)
	bread := createRecipe(t, db, recipes, author, "Bread", tag,
		types.IngredientAmount{ID: flour.ID, Amount: 300},
	)

	_, err := interactions.AddToShoppingCart(context.Background(), author.ID, cake.ID)
	require.NoError(t, err)
	_, err = interactions.AddToShoppingCart(context.Background(), author.ID, bread.ID)
	require.NoError(t, err)

	items, err := svc.Aggregate(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// ordered by ingredient name, amounts summed across recipes
	assert.Equal(t, service.ShoppingListItem{Name: "Flour", MeasurementUnit: "g", Amount: 500}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "Sugar", MeasurementUnit: "g", Amount: 50}, items[1])
}

func TestAggregateIsScopedToTheCartOwner(t *testing.T) {
	db := newTestDB(t)
	recipes := newRecipeService(t, db)
	interactions := service.NewInteractionService(db)
	svc := service.NewShoppingListService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tag := createTag(t, db, "dinner")
	flour := createIngredient(t, db, "Flour", "g")

	cake := createRecipe(t, db, recipes, alice, "Cake", tag,
		types.IngredientAmount{ID: flour.ID, Amount: 100})

	_, err := interactions.AddToShoppingCart(context.Background(), alice.ID, cake.ID)
	require.NoError(t, err)

	mine, err := svc.Aggregate(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.Aggregate(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestRenderShoppingList(t *testing.T) {
	items := []service.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", Amount: 500},
		{Name: "Milk", MeasurementUnit: "ml", Amount: 250},
	}
	want := "Foodgram shopping list\n\nFlour (g) 500\nMilk (ml) 250"
	assert.Equal(t, want, service.Render(items))
}

func TestRenderEmptyShoppingList(t *testing.T) {
	assert.Equal(t, "Foodgram shopping list\n", service.Render(nil))
}
