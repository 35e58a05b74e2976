package catalog

import (
	"errors"
	"fmt"

	"meal-planner/internal/core/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertIngredient 依名稱取得或建立食材
func UpsertIngredient(tx *gorm.DB, name string) (*model.Ingredient, model.UpsertResult, error) {
	name, err := ValidateName("ingredient", name)
	if err != nil {
		return nil, model.Unchanged, err
	}

	ing := model.Ingredient{Name: name}
	res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&ing)
	if res.Error != nil {
		return nil, model.Unchanged, fmt.Errorf("create ingredient %q: %w", name, res.Error)
	}
	if res.RowsAffected == 1 {
		return &ing, model.Created, nil
	}

	var existing model.Ingredient
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, model.Unchanged, fmt.Errorf("get ingredient %q: %w", name, err)
	}
	return &existing, model.Unchanged, nil
}

// UpsertRecipe 依名稱建立食譜，已存在時更新內容與各食材用量
func UpsertRecipe(tx *gorm.DB, in RecipeInput) (*model.Recipe, model.UpsertResult, error) {
	if err := validateRecipeInput(&in); err != nil {
		return nil, model.Unchanged, err
	}

	recipe := model.Recipe{Name: in.Name, Portions: 1}
	if in.Instructions != nil {
		recipe.Instructions = *in.Instructions
	}
	if in.Portions != nil {
		recipe.Portions = *in.Portions
	}

	res := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&recipe)
	if res.Error != nil {
		return nil, model.Unchanged, fmt.Errorf("create recipe %q: %w", in.Name, res.Error)
	}

	if res.RowsAffected == 1 {
		for _, a := range in.Ingredients {
			if _, err := upsertAmount(tx, recipe.ID, a); err != nil {
				return nil, model.Unchanged, err
			}
		}
		return &recipe, model.Created, nil
	}

	var existing model.Recipe
	if err := tx.Where("name = ?", in.Name).First(&existing).Error; err != nil {
		return nil, model.Unchanged, fmt.Errorf("get recipe %q: %w", in.Name, err)
	}
	result, err := applyRecipe(tx, &existing, in)
	if err != nil {
		return nil, model.Unchanged, err
	}
	return &existing, result, nil
}

// FindRecipeByName 引用既有食譜
func FindRecipeByName(tx *gorm.DB, name string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := tx.Where("name = ?", name).First(&recipe).Error
	if err != nil {
		return nil, wrapNotFound(err, "recipe %q", name)
	}
	return &recipe, nil
}

// applyRecipe 將輸入套用到既有食譜；Name 由呼叫者處理
func applyRecipe(tx *gorm.DB, recipe *model.Recipe, in RecipeInput) (model.UpsertResult, error) {
	result := model.Unchanged
	updates := map[string]interface{}{}
	if in.Instructions != nil && *in.Instructions != recipe.Instructions {
		updates["instructions"] = *in.Instructions
	}
	if in.Portions != nil && *in.Portions != recipe.Portions {
		updates["portions"] = *in.Portions
	}
	if len(updates) > 0 {
		if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return model.Unchanged, fmt.Errorf("update recipe %d: %w", recipe.ID, err)
		}
		result = model.Updated
	}

	for _, a := range in.Ingredients {
		r, err := upsertAmount(tx, recipe.ID, a)
		if err != nil {
			return model.Unchanged, err
		}
		if r != model.Unchanged {
			result = result.Merge(model.Updated)
		}
	}
	return result, nil
}

// upsertAmount 依 (食譜, 食材) 更新或建立用量
func upsertAmount(tx *gorm.DB, recipeID uint, in AmountInput) (model.UpsertResult, error) {
	ing, _, err := UpsertIngredient(tx, in.Ingredient.Name)
	if err != nil {
		return model.Unchanged, err
	}

	var existing model.IngredientAmount
	err = tx.Where("recipe_id = ? AND ingredient_id = ?", recipeID, ing.ID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		amount := model.IngredientAmount{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Unit:         in.Unit,
			Amount:       in.Amount,
		}
		if err := tx.Omit(clause.Associations).Create(&amount).Error; err != nil {
			return model.Unchanged, fmt.Errorf("create amount of %q: %w", ing.Name, err)
		}
		return model.Created, nil
	case err != nil:
		return model.Unchanged, fmt.Errorf("get amount of %q: %w", ing.Name, err)
	}

	if existing.Unit == in.Unit && existing.Amount == in.Amount {
		return model.Unchanged, nil
	}
	err = tx.Model(&existing).Omit(clause.Associations).
		Updates(map[string]interface{}{"unit": in.Unit, "amount": in.Amount}).Error
	if err != nil {
		return model.Unchanged, fmt.Errorf("update amount of %q: %w", ing.Name, err)
	}
	return model.Updated, nil
}
