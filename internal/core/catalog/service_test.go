package catalog

import (
	"context"
	"testing"

	"meal-planner/internal/core/model"
	"meal-planner/internal/infrastructure/database/dbtest"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func amountIn(name string, unit model.Unit, qty float64) AmountInput {
	return AmountInput{Ingredient: IngredientRef{Name: name}, Unit: unit, Amount: qty}
}

func breadInput() RecipeInput {
	return RecipeInput{
		Name:         "Bread",
		Instructions: strPtr("Knead and bake."),
		Portions:     intPtr(2),
		Ingredients: []AmountInput{
			amountIn("Flour", model.Kilograms, 1),
			amountIn("Water", model.Milliliters, 600),
		},
	}
}

func TestUpsertIngredient(t *testing.T) {
	db := dbtest.New(t)

	first, result, err := UpsertIngredient(db, "  Flour ")
	require.NoError(t, err)
	require.Equal(t, model.Created, result)
	require.Equal(t, "Flour", first.Name)

	second, result, err := UpsertIngredient(db, "Flour")
	require.NoError(t, err)
	require.Equal(t, model.Unchanged, result)
	require.Equal(t, first.ID, second.ID)

	_, _, err = UpsertIngredient(db, "   ")
	require.ErrorIs(t, err, common.ErrInvalidRequest)
	require.True(t, common.IsValidationError(err))

	var count int64
	require.NoError(t, db.Model(&model.Ingredient{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpsertRecipe(t *testing.T) {
	db := dbtest.New(t)

	recipe, result, err := UpsertRecipe(db, breadInput())
	require.NoError(t, err)
	require.Equal(t, model.Created, result)
	require.Equal(t, 2, recipe.Portions)

	t.Run("SameInputIsUnchanged", func(t *testing.T) {
		again, result, err := UpsertRecipe(db, breadInput())
		require.NoError(t, err)
		require.Equal(t, model.Unchanged, result)
		require.Equal(t, recipe.ID, again.ID)
	})

	t.Run("ChangedAmountIsUpdated", func(t *testing.T) {
		in := breadInput()
		in.Ingredients = []AmountInput{amountIn("Flour", model.Grams, 900), amountIn("Salt", model.Teaspoon, 1)}
		_, result, err := UpsertRecipe(db, in)
		require.NoError(t, err)
		require.Equal(t, model.Updated, result)

		var amounts []model.IngredientAmount
		require.NoError(t, db.Preload("Ingredient").Where("recipe_id = ?", recipe.ID).Order("id").Find(&amounts).Error)
		require.Len(t, amounts, 3)
		require.Equal(t, "Flour", amounts[0].Ingredient.Name)
		require.Equal(t, model.Grams, amounts[0].Unit)
		require.Equal(t, 900.0, amounts[0].Amount)
		require.Equal(t, "Salt", amounts[2].Ingredient.Name)
	})

	t.Run("NameOnlyKeepsFields", func(t *testing.T) {
		_, result, err := UpsertRecipe(db, RecipeInput{Name: "Bread"})
		require.NoError(t, err)
		require.Equal(t, model.Unchanged, result)

		var stored model.Recipe
		require.NoError(t, db.First(&stored, recipe.ID).Error)
		require.Equal(t, 2, stored.Portions)
		require.Equal(t, "Knead and bake.", stored.Instructions)
	})

	t.Run("DefaultPortions", func(t *testing.T) {
		created, result, err := UpsertRecipe(db, RecipeInput{Name: "Toast"})
		require.NoError(t, err)
		require.Equal(t, model.Created, result)
		require.Equal(t, 1, created.Portions)
	})
}

func TestUpsertRecipeValidation(t *testing.T) {
	db := dbtest.New(t)

	testCases := []struct {
		name string
		in   RecipeInput
	}{
		{name: "EmptyName", in: RecipeInput{Name: ""}},
		{name: "ZeroPortions", in: RecipeInput{Name: "Soup", Portions: intPtr(0)}},
		{name: "BadUnit", in: RecipeInput{Name: "Soup", Ingredients: []AmountInput{amountIn("Leek", model.Unit("oz"), 1)}}},
		{name: "NegativeAmount", in: RecipeInput{Name: "Soup", Ingredients: []AmountInput{amountIn("Leek", model.Units, -1)}}},
		{name: "MissingIngredientName", in: RecipeInput{Name: "Soup", Ingredients: []AmountInput{amountIn("", model.Units, 1)}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := UpsertRecipe(db, tc.in)
			require.ErrorIs(t, err, common.ErrInvalidRequest)
		})
	}

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestServiceIngredients(t *testing.T) {
	svc := NewService(dbtest.New(t))
	ctx := context.Background()

	for _, name := range []string{"Salt", "Avocado", "Flour"} {
		_, result, err := svc.CreateIngredient(ctx, name)
		require.NoError(t, err)
		require.Equal(t, model.Created, result)
	}

	list, err := svc.ListIngredients(ctx, Page{ID: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Avocado", list[0].Name)
	require.Equal(t, "Flour", list[1].Name)

	list, err = svc.ListIngredients(ctx, Page{ID: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Salt", list[0].Name)

	salt := list[0]
	renamed, err := svc.UpdateIngredient(ctx, salt.ID, "Sea Salt")
	require.NoError(t, err)
	require.Equal(t, "Sea Salt", renamed.Name)

	_, err = svc.UpdateIngredient(ctx, salt.ID, "Flour")
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = svc.GetIngredient(ctx, 999)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.DeleteIngredient(ctx, salt.ID))
	require.ErrorIs(t, svc.DeleteIngredient(ctx, salt.ID), common.ErrNotFound)
}

func TestServiceRecipes(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(db)
	ctx := context.Background()

	recipe, result, err := svc.CreateRecipe(ctx, breadInput())
	require.NoError(t, err)
	require.Equal(t, model.Created, result)
	require.Len(t, recipe.Amounts, 2)
	require.NotNil(t, recipe.Amounts[0].Ingredient)
	require.Equal(t, "Flour", recipe.Amounts[0].Ingredient.Name)

	_, result, err = svc.CreateRecipe(ctx, breadInput())
	require.NoError(t, err)
	require.Equal(t, model.Unchanged, result)

	updated, result, err := svc.UpdateRecipe(ctx, recipe.ID, RecipeInput{Name: "Rye Bread", Portions: intPtr(4)})
	require.NoError(t, err)
	require.Equal(t, model.Updated, result)
	require.Equal(t, "Rye Bread", updated.Name)
	require.Equal(t, 4, updated.Portions)
	require.Len(t, updated.Amounts, 2)

	_, _, err = svc.CreateRecipe(ctx, RecipeInput{Name: "Toast"})
	require.NoError(t, err)
	_, _, err = svc.UpdateRecipe(ctx, recipe.ID, RecipeInput{Name: "Toast"})
	require.ErrorIs(t, err, common.ErrConflict)

	_, _, err = svc.UpdateRecipe(ctx, 999, RecipeInput{Name: "Nope"})
	require.ErrorIs(t, err, common.ErrNotFound)

	recipes, err := svc.ListRecipes(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))
	_, err = svc.GetRecipe(ctx, recipe.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	var amounts int64
	require.NoError(t, db.Model(&model.IngredientAmount{}).Where("recipe_id = ?", recipe.ID).Count(&amounts).Error)
	require.Zero(t, amounts)
}

func TestPage(t *testing.T) {
	require.Equal(t, 0, Page{}.Offset())
	require.Equal(t, defaultPageSize, Page{}.Limit())
	require.Equal(t, 10, Page{ID: 3, Size: 5}.Offset())
	require.Equal(t, maxPageSize, Page{Size: 1000}.Limit())
}

func TestRecipeInputIsReference(t *testing.T) {
	require.True(t, RecipeInput{Name: "Bread"}.IsReference())
	require.False(t, RecipeInput{Name: "Bread", Portions: intPtr(2)}.IsReference())
	require.False(t, RecipeInput{}.IsReference())
}
