package shopping

import "meal-planner/internal/core/model"

// conversion 換算到標準單位的倍率
type conversion struct {
	factor float64
	unit   model.Unit
}

// conversions 重量統一為公克、容量統一為毫升；其他單位原樣保留
var conversions = map[model.Unit]conversion{
	model.Kilograms:   {factor: 1000, unit: model.Grams},
	model.Grams:       {factor: 1, unit: model.Grams},
	model.Liters:      {factor: 1000, unit: model.Milliliters},
	model.Cup:         {factor: 240, unit: model.Milliliters},
	model.Tablespoon:  {factor: 15, unit: model.Milliliters},
	model.Teaspoon:    {factor: 5, unit: model.Milliliters},
	model.Milliliters: {factor: 1, unit: model.Milliliters},
}

// Normalize 將數量換算成標準單位
func Normalize(unit model.Unit, amount float64) (model.Unit, float64) {
	c, ok := conversions[unit]
	if !ok {
		return unit, amount
	}
	return c.unit, amount * c.factor
}

// Label 購物清單的鍵 "<食材名稱>, <單位>"
func Label(ingredientName string, unit model.Unit) string {
	return ingredientName + ", " + string(unit)
}
