package model

import "fmt"

// Unit 計量單位代碼
type Unit string

const (
	Grams       Unit = "gr"
	Kilograms   Unit = "kg"
	Milliliters Unit = "ml"
	Liters      Unit = "lt"
	Units       Unit = "unt"
	Cloves      Unit = "cl"
	Teaspoon    Unit = "tsp"
	Cup         Unit = "cp"
	Tablespoon  Unit = "tbl"
)

var unitNames = map[Unit]string{
	Grams:       "grams",
	Kilograms:   "kilograms",
	Milliliters: "milliliters",
	Liters:      "liters",
	Units:       "units",
	Cloves:      "cloves",
	Teaspoon:    "teaspoon",
	Cup:         "cup",
	Tablespoon:  "tablespoon",
}

// Valid 是否為支援的單位
func (u Unit) Valid() bool {
	_, ok := unitNames[u]
	return ok
}

// DisplayName 單位全名
func (u Unit) DisplayName() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return string(u)
}

// ParseUnit 驗證單位代碼
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("unsupported unit %q", s)
	}
	return u, nil
}

// MealType 餐別
type MealType string

const (
	Breakfast MealType = "br"
	Lunch     MealType = "lu"
	Dinner    MealType = "dr"
	Snack     MealType = "sn"
)

var mealTypeNames = map[MealType]string{
	Breakfast: "Breakfast",
	Lunch:     "Lunch",
	Dinner:    "Dinner",
	Snack:     "Snack",
}

// Valid 是否為支援的餐別
func (m MealType) Valid() bool {
	_, ok := mealTypeNames[m]
	return ok
}

// DisplayName 餐別名稱
func (m MealType) DisplayName() string {
	if name, ok := mealTypeNames[m]; ok {
		return name
	}
	return string(m)
}
