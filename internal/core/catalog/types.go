package catalog

import "meal-planner/internal/core/model"

const (
	maxNameLength   = 100
	defaultPageSize = 20
	maxPageSize     = 100
)

// IngredientRef 以名稱指定的食材
type IngredientRef struct {
	Name string `json:"name"`
}

// AmountInput 食譜中一項食材的用量
type AmountInput struct {
	Ingredient IngredientRef `json:"ingredient"`
	Unit       model.Unit    `json:"unit"`
	Amount     float64       `json:"amount"`
}

// RecipeInput 建立或更新食譜的輸入；Instructions 與 Portions 為 nil 時保留原值
type RecipeInput struct {
	Name         string        `json:"name"`
	Instructions *string       `json:"instructions,omitempty"`
	Portions     *int          `json:"portions,omitempty"`
	Ingredients  []AmountInput `json:"ingredients"`
}

// IsReference 只有名稱時視為引用既有食譜
func (in RecipeInput) IsReference() bool {
	return in.Name != "" && in.Instructions == nil && in.Portions == nil && len(in.Ingredients) == 0
}

// Page 分頁參數
type Page struct {
	ID   int `form:"page_id" json:"page_id"`
	Size int `form:"page_size" json:"page_size"`
}

func (p Page) normalize() Page {
	if p.ID < 1 {
		p.ID = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset 計算查詢偏移量
func (p Page) Offset() int {
	p = p.normalize()
	return (p.ID - 1) * p.Size
}

// Limit 每頁筆數
func (p Page) Limit() int {
	return p.normalize().Size
}
