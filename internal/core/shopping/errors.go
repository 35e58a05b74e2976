package shopping

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateFormat 日期格式錯誤或起訖顛倒
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD with start <= end")
	// ErrInvalidRecipeState 食譜基準份數無效
	ErrInvalidRecipeState = errors.New("invalid recipe state")
	// ErrDanglingReference 子紀錄指向不存在的父紀錄
	ErrDanglingReference = errors.New("dangling reference")
)

// RecipeStateError 食譜份數 <= 0
type RecipeStateError struct {
	MealID   uint
	DishID   uint
	RecipeID uint
	Portions int
}

func (e *RecipeStateError) Error() string {
	return fmt.Sprintf("recipe %d has %d base portions (meal %d, dish %d)",
		e.RecipeID, e.Portions, e.MealID, e.DishID)
}

// Unwrap 支援 errors.Is(err, ErrInvalidRecipeState)
func (e *RecipeStateError) Unwrap() error {
	return ErrInvalidRecipeState
}

// DanglingReferenceError 指出哪一筆紀錄的哪個參照遺失
type DanglingReferenceError struct {
	MealID  uint
	Entity  string // "dish", "ingredient_amount", "extra"
	ID      uint
	Missing string // "recipe", "ingredient"
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("meal %d: %s %d references a missing %s", e.MealID, e.Entity, e.ID, e.Missing)
}

// Unwrap 支援 errors.Is(err, ErrDanglingReference)
func (e *DanglingReferenceError) Unwrap() error {
	return ErrDanglingReference
}
