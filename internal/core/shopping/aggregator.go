package shopping

import (
	"context"
	"fmt"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=../../mocks/shopping/mock_finder.go -package=mockshopping meal-planner/internal/core/shopping MealFinder

// MealFinder 讀取日期區間內的餐點快照，需預載 Dishes.Recipe.Amounts.Ingredient 與 Extras.Item
type MealFinder interface {
	FindMealsInRange(ctx context.Context, start, end model.Date, scope model.Scope) ([]model.Meal, error)
}

// Aggregator 購物清單彙總
type Aggregator struct {
	finder MealFinder
}

// NewAggregator 創建購物清單彙總器
func NewAggregator(finder MealFinder) *Aggregator {
	return &Aggregator{finder: finder}
}

// ParseRange 解析路徑中的起訖日期
func ParseRange(startStr, endStr string) (model.Date, model.Date, error) {
	start, err := model.ParseDate(startStr)
	if err != nil {
		return model.Date{}, model.Date{}, fmt.Errorf("%w: start %q", ErrInvalidDateFormat, startStr)
	}
	end, err := model.ParseDate(endStr)
	if err != nil {
		return model.Date{}, model.Date{}, fmt.Errorf("%w: end %q", ErrInvalidDateFormat, endStr)
	}
	if end.Before(start) {
		return model.Date{}, model.Date{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateFormat, start, end)
	}
	return start, end, nil
}

// BuildShoppingList 彙總 [start, end] 內所有餐點所需的食材數量
func (a *Aggregator) BuildShoppingList(ctx context.Context, start, end model.Date, scope model.Scope) (map[string]float64, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, fmt.Errorf("%w: range %s..%s", ErrInvalidDateFormat, start, end)
	}

	meals, err := a.finder.FindMealsInRange(ctx, start, end, scope)
	if err != nil {
		return nil, fmt.Errorf("find meals in range: %w", err)
	}

	list := make(map[string]float64)
	for i := range meals {
		if err := accumulateMeal(list, &meals[i]); err != nil {
			return nil, err
		}
	}

	common.LogDebug("Shopping list built",
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Int("meals", len(meals)),
		zap.Int("items", len(list)),
	)

	return list, nil
}

func accumulateMeal(list map[string]float64, meal *model.Meal) error {
	for _, dish := range meal.Dishes {
		recipe := dish.Recipe
		if recipe == nil {
			return &DanglingReferenceError{MealID: meal.ID, Entity: "dish", ID: dish.ID, Missing: "recipe"}
		}
		if recipe.Portions <= 0 {
			return &RecipeStateError{MealID: meal.ID, DishID: dish.ID, RecipeID: recipe.ID, Portions: recipe.Portions}
		}

		for _, ia := range recipe.Amounts {
			if ia.Ingredient == nil {
				return &DanglingReferenceError{MealID: meal.ID, Entity: "ingredient_amount", ID: ia.ID, Missing: "ingredient"}
			}
			scaled := ia.Amount / float64(recipe.Portions) * float64(dish.Portions)
			unit, amount := Normalize(ia.Unit, scaled)
			list[Label(ia.Ingredient.Name, unit)] += amount
		}
	}

	// 額外項目不依份數縮放
	for _, extra := range meal.Extras {
		if extra.Item == nil {
			return &DanglingReferenceError{MealID: meal.ID, Entity: "extra", ID: extra.ID, Missing: "ingredient"}
		}
		unit, amount := Normalize(extra.Unit, extra.Amount)
		list[Label(extra.Item.Name, unit)] += amount
	}

	return nil
}
