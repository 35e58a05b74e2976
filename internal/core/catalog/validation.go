package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

func invalid(format string, args ...interface{}) error {
	return common.ErrInvalidRequest.Wrap(common.NewValidationError(fmt.Sprintf(format, args...)))
}

// ValidateName 名稱不可為空且不超過 100 字
func ValidateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s name is required", kind)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", invalid("%s name must be at most %d characters", kind, maxNameLength)
	}
	return name, nil
}

// ValidatePortions 份數必須為正整數
func ValidatePortions(portions int) error {
	if portions < 1 {
		return invalid("portions must be at least 1, got %d", portions)
	}
	return nil
}

// ValidateQuantity 驗證單位與數量
func ValidateQuantity(unit model.Unit, amount float64) error {
	if !unit.Valid() {
		return invalid("unsupported unit %q", unit)
	}
	if amount <= 0 {
		return invalid("amount must be positive, got %g", amount)
	}
	return nil
}

func validateRecipeInput(in *RecipeInput) error {
	name, err := ValidateName("recipe", in.Name)
	if err != nil {
		return err
	}
	in.Name = name

	if in.Portions != nil {
		if err := ValidatePortions(*in.Portions); err != nil {
			return err
		}
	}

	for i := range in.Ingredients {
		a := &in.Ingredients[i]
		ingName, err := ValidateName("ingredient", a.Ingredient.Name)
		if err != nil {
			return err
		}
		a.Ingredient.Name = ingName
		if err := ValidateQuantity(a.Unit, a.Amount); err != nil {
			return fmt.Errorf("ingredient %q: %w", ingName, err)
		}
	}
	return nil
}
