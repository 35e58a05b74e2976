package planner

import (
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/model"
)

// DishInput 一道菜：以 recipe_id、食譜名稱引用，或內嵌完整食譜
type DishInput struct {
	RecipeID uint                 `json:"recipe_id,omitempty"`
	Recipe   *catalog.RecipeInput `json:"recipe,omitempty"`
	Portions int                  `json:"portions"`
}

// ExtraInput 額外食材
type ExtraInput struct {
	Item   catalog.IngredientRef `json:"item"`
	Unit   model.Unit            `json:"unit"`
	Amount float64               `json:"amount"`
}

// MealInput 建立或更新餐點的輸入
type MealInput struct {
	Date   model.Date     `json:"date"`
	Type   model.MealType `json:"meal"`
	Dishes []DishInput    `json:"dishes"`
	Extras []ExtraInput   `json:"extras"`
}
