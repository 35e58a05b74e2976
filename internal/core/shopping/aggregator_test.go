package shopping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/shopping"
	mockshopping "meal-planner/internal/mocks/shopping"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var (
	jan1 = model.NewDate(2024, time.January, 1)
	jan2 = model.NewDate(2024, time.January, 2)
	jan7 = model.NewDate(2024, time.January, 7)
)

func ingredient(id uint, name string) *model.Ingredient {
	return &model.Ingredient{ID: id, Name: name}
}

func recipe(id uint, portions int, amounts ...model.IngredientAmount) *model.Recipe {
	return &model.Recipe{ID: id, Name: "recipe", Portions: portions, Amounts: amounts}
}

func amount(ing *model.Ingredient, unit model.Unit, qty float64) model.IngredientAmount {
	return model.IngredientAmount{IngredientID: ing.ID, Ingredient: ing, Unit: unit, Amount: qty}
}

func TestBuildShoppingList(t *testing.T) {
	flour := ingredient(1, "Flour")
	tea := ingredient(2, "Green Tea")
	avocado := ingredient(3, "Avocado")
	salt := ingredient(4, "Salt")
	garlic := ingredient(5, "Garlic")

	bread := recipe(10, 2, amount(flour, model.Kilograms, 1))

	testCases := []struct {
		name          string
		meals         []model.Meal
		checkResponse func(t *testing.T, list map[string]float64, err error)
	}{
		{
			name: "ScalesByPortions",
			meals: []model.Meal{
				{ID: 1, Date: jan2, Type: model.Lunch, Dishes: []model.Dish{{ID: 1, Recipe: bread, Portions: 4}}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.Equal(t, map[string]float64{"Flour, gr": 2000}, list)
			},
		},
		{
			name: "VolumeNormalizedToMilliliters",
			meals: []model.Meal{
				{ID: 1, Date: jan2, Type: model.Breakfast, Dishes: []model.Dish{{
					ID:       1,
					Recipe:   recipe(11, 1, amount(tea, model.Cup, 1), amount(salt, model.Teaspoon, 1)),
					Portions: 1,
				}}},
				{ID: 2, Date: jan2, Type: model.Snack, Extras: []model.ExtraItem{
					{ID: 1, Item: tea, Unit: model.Liters, Amount: 0.06},
				}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.Len(t, list, 2)
				require.InDelta(t, 300, list["Green Tea, ml"], 1e-9)
				require.InDelta(t, 5, list["Salt, ml"], 1e-9)
			},
		},
		{
			name: "ExtrasAreNotScaled",
			meals: []model.Meal{
				{ID: 1, Date: jan1, Type: model.Dinner,
					Dishes: []model.Dish{{ID: 1, Recipe: bread, Portions: 8}},
					Extras: []model.ExtraItem{{ID: 1, Item: avocado, Unit: model.Units, Amount: 2}},
				},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.Equal(t, 2.0, list["Avocado, unt"])
				require.Equal(t, 4000.0, list["Flour, gr"])
			},
		},
		{
			name: "AdditiveAcrossMeals",
			meals: []model.Meal{
				{ID: 1, Date: jan1, Type: model.Lunch, Dishes: []model.Dish{{ID: 1, Recipe: bread, Portions: 2}}},
				{ID: 2, Date: jan2, Type: model.Dinner,
					Dishes: []model.Dish{{ID: 2, Recipe: bread, Portions: 1}},
					Extras: []model.ExtraItem{{ID: 1, Item: flour, Unit: model.Grams, Amount: 250}},
				},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.Equal(t, map[string]float64{"Flour, gr": 1750}, list)
			},
		},
		{
			name: "UnitsAndClovesKeptSeparate",
			meals: []model.Meal{
				{ID: 1, Date: jan1, Type: model.Lunch, Extras: []model.ExtraItem{
					{ID: 1, Item: garlic, Unit: model.Cloves, Amount: 3},
					{ID: 2, Item: garlic, Unit: model.Units, Amount: 1},
					{ID: 3, Item: garlic, Unit: model.Grams, Amount: 10},
				}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.Equal(t, map[string]float64{
					"Garlic, cl":  3,
					"Garlic, unt": 1,
					"Garlic, gr":  10,
				}, list)
			},
		},
		{
			name:  "EmptyRange",
			meals: nil,
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.NoError(t, err)
				require.NotNil(t, list)
				require.Empty(t, list)
			},
		},
		{
			name: "ZeroPortionsRecipe",
			meals: []model.Meal{
				{ID: 7, Date: jan1, Type: model.Lunch, Dishes: []model.Dish{{ID: 3, Recipe: recipe(12, 0, amount(flour, model.Grams, 100)), Portions: 1}}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.Nil(t, list)
				require.ErrorIs(t, err, shopping.ErrInvalidRecipeState)
				var stateErr *shopping.RecipeStateError
				require.True(t, errors.As(err, &stateErr))
				require.Equal(t, uint(12), stateErr.RecipeID)
				require.Equal(t, uint(7), stateErr.MealID)
			},
		},
		{
			name: "DishWithMissingRecipe",
			meals: []model.Meal{
				{ID: 4, Date: jan1, Type: model.Lunch, Dishes: []model.Dish{{ID: 9, RecipeID: 999, Portions: 1}}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.Nil(t, list)
				require.ErrorIs(t, err, shopping.ErrDanglingReference)
				var refErr *shopping.DanglingReferenceError
				require.True(t, errors.As(err, &refErr))
				require.Equal(t, uint(4), refErr.MealID)
				require.Equal(t, "dish", refErr.Entity)
				require.Equal(t, uint(9), refErr.ID)
			},
		},
		{
			name: "ExtraWithMissingItem",
			meals: []model.Meal{
				{ID: 5, Date: jan1, Type: model.Snack, Extras: []model.ExtraItem{{ID: 6, ItemID: 404, Unit: model.Grams, Amount: 1}}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.Nil(t, list)
				require.ErrorIs(t, err, shopping.ErrDanglingReference)
			},
		},
		{
			name: "AmountWithMissingIngredient",
			meals: []model.Meal{
				{ID: 5, Date: jan1, Type: model.Snack, Dishes: []model.Dish{{
					ID:       1,
					Recipe:   recipe(13, 1, model.IngredientAmount{ID: 21, IngredientID: 404, Unit: model.Grams, Amount: 1}),
					Portions: 1,
				}}},
			},
			checkResponse: func(t *testing.T, list map[string]float64, err error) {
				require.ErrorIs(t, err, shopping.ErrDanglingReference)
				var refErr *shopping.DanglingReferenceError
				require.True(t, errors.As(err, &refErr))
				require.Equal(t, "ingredient_amount", refErr.Entity)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			finder := mockshopping.NewMockMealFinder(ctrl)
			finder.EXPECT().
				FindMealsInRange(gomock.Any(), gomock.Eq(jan1), gomock.Eq(jan7), gomock.Eq(model.UserScope(1))).
				Times(1).
				Return(tc.meals, nil)

			aggregator := shopping.NewAggregator(finder)
			list, err := aggregator.BuildShoppingList(context.Background(), jan1, jan7, model.UserScope(1))
			tc.checkResponse(t, list, err)
		})
	}
}

func TestBuildShoppingListIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tea := ingredient(2, "Green Tea")
	meals := []model.Meal{
		{ID: 1, Date: jan1, Type: model.Breakfast, Dishes: []model.Dish{{
			ID: 1, Recipe: recipe(1, 3, amount(tea, model.Tablespoon, 2)), Portions: 5,
		}}},
	}

	finder := mockshopping.NewMockMealFinder(ctrl)
	finder.EXPECT().FindMealsInRange(gomock.Any(), jan1, jan1, gomock.Any()).Times(2).Return(meals, nil)

	aggregator := shopping.NewAggregator(finder)
	first, err := aggregator.BuildShoppingList(context.Background(), jan1, jan1, model.GlobalScope())
	require.NoError(t, err)
	second, err := aggregator.BuildShoppingList(context.Background(), jan1, jan1, model.GlobalScope())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.InDelta(t, 50, first["Green Tea, ml"], 1e-9)
}

func TestBuildShoppingListFinderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("connection reset")
	finder := mockshopping.NewMockMealFinder(ctrl)
	finder.EXPECT().FindMealsInRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := shopping.NewAggregator(finder).BuildShoppingList(context.Background(), jan1, jan2, model.UserScope(1))
	require.ErrorIs(t, err, dbErr)
}

func TestBuildShoppingListRejectsReversedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	finder := mockshopping.NewMockMealFinder(ctrl)
	finder.EXPECT().FindMealsInRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := shopping.NewAggregator(finder).BuildShoppingList(context.Background(), jan7, jan1, model.UserScope(1))
	require.ErrorIs(t, err, shopping.ErrInvalidDateFormat)
}

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "OK", start: "2024-01-01", end: "2024-01-07"},
		{name: "SameDay", start: "2024-01-01", end: "2024-01-01"},
		{name: "BadStart", start: "2024/01/01", end: "2024-01-07", wantErr: true},
		{name: "BadEnd", start: "2024-01-01", end: "tomorrow", wantErr: true},
		{name: "ImpossibleDate", start: "2024-02-30", end: "2024-03-01", wantErr: true},
		{name: "Reversed", start: "2024-01-07", end: "2024-01-01", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := shopping.ParseRange(tc.start, tc.end)
			if tc.wantErr {
				require.ErrorIs(t, err, shopping.ErrInvalidDateFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.start, start.String())
			require.Equal(t, tc.end, end.String())
		})
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		unit     model.Unit
		amount   float64
		wantUnit model.Unit
		want     float64
	}{
		{model.Kilograms, 1.5, model.Grams, 1500},
		{model.Grams, 20, model.Grams, 20},
		{model.Liters, 0.5, model.Milliliters, 500},
		{model.Cup, 2, model.Milliliters, 480},
		{model.Tablespoon, 1, model.Milliliters, 15},
		{model.Teaspoon, 3, model.Milliliters, 15},
		{model.Milliliters, 7, model.Milliliters, 7},
		{model.Units, 2, model.Units, 2},
		{model.Cloves, 4, model.Cloves, 4},
		{model.Unit("oz"), 1, model.Unit("oz"), 1},
	}

	for _, tc := range testCases {
		t.Run(string(tc.unit), func(t *testing.T) {
			unit, got := shopping.Normalize(tc.unit, tc.amount)
			require.Equal(t, tc.wantUnit, unit)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}

	require.Equal(t, "Flour, gr", shopping.Label("Flour", model.Grams))
}
