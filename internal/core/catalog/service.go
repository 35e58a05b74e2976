package catalog

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service 食材與食譜管理
type Service struct {
	db *gorm.DB
}

// NewService 創建目錄服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func wrapNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound.Wrap(fmt.Errorf(format+" not found", args...))
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func wrapConflict(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrConflict.WithMessage(message).Wrap(err)
	}
	return err
}

// CreateIngredient 依名稱建立食材，已存在時回傳既有紀錄
func (s *Service) CreateIngredient(ctx context.Context, name string) (*model.Ingredient, model.UpsertResult, error) {
	ing, result, err := UpsertIngredient(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, model.Unchanged, err
	}
	common.LogInfo("Ingredient upserted", zap.Uint("ingredient_id", ing.ID), zap.Stringer("result", result))
	return ing, result, nil
}

// GetIngredient 取得單一食材
func (s *Service) GetIngredient(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, wrapNotFound(err, "ingredient %d", id)
	}
	return &ing, nil
}

// ListIngredients 依名稱排序分頁列出食材
func (s *Service) ListIngredients(ctx context.Context, page Page) ([]model.Ingredient, error) {
	ingredients := []model.Ingredient{}
	err := s.db.WithContext(ctx).
		Order("name").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// UpdateIngredient 重新命名食材
func (s *Service) UpdateIngredient(ctx context.Context, id uint, name string) (*model.Ingredient, error) {
	name, err := ValidateName("ingredient", name)
	if err != nil {
		return nil, err
	}

	ing, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing.Name == name {
		return ing, nil
	}

	if err := s.db.WithContext(ctx).Model(ing).Update("name", name).Error; err != nil {
		return nil, wrapConflict(err, fmt.Sprintf("ingredient %q already exists", name))
	}
	ing.Name = name
	return ing, nil
}

// DeleteIngredient 刪除食材與引用它的用量與額外項目
func (s *Service) DeleteIngredient(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&model.IngredientAmount{}).Error; err != nil {
			return fmt.Errorf("delete amounts of ingredient %d: %w", id, err)
		}
		if err := tx.Where("item_id = ?", id).Delete(&model.ExtraItem{}).Error; err != nil {
			return fmt.Errorf("delete extras of ingredient %d: %w", id, err)
		}
		res := tx.Delete(&model.Ingredient{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete ingredient %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound.Wrap(fmt.Errorf("ingredient %d not found", id))
		}
		return nil
	})
}

// CreateRecipe 依名稱建立或更新食譜
func (s *Service) CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, model.UpsertResult, error) {
	var (
		recipe *model.Recipe
		result model.UpsertResult
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, result, err = UpsertRecipe(tx, in)
		return err
	})
	if err != nil {
		return nil, model.Unchanged, err
	}

	common.LogInfo("Recipe upserted",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("name", recipe.Name),
		zap.Stringer("result", result),
	)

	full, err := s.GetRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, model.Unchanged, err
	}
	return full, result, nil
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.Preload("Amounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("ingredient_amounts.id")
	}).Preload("Amounts.Ingredient")
}

// GetRecipe 取得食譜與其食材用量
func (s *Service) GetRecipe(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, wrapNotFound(err, "recipe %d", id)
	}
	return &recipe, nil
}

// ListRecipes 依名稱排序分頁列出食譜
func (s *Service) ListRecipes(ctx context.Context, page Page) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	err := preloadRecipe(s.db.WithContext(ctx)).
		Order("name").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe 更新食譜名稱、說明、份數，並更新或新增食材用量
func (s *Service) UpdateRecipe(ctx context.Context, id uint, in RecipeInput) (*model.Recipe, model.UpsertResult, error) {
	var result model.UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return wrapNotFound(err, "recipe %d", id)
		}

		if in.Name == "" {
			in.Name = recipe.Name
		}
		if err := validateRecipeInput(&in); err != nil {
			return err
		}

		if in.Name != recipe.Name {
			err := tx.Model(&recipe).Omit(clause.Associations).Update("name", in.Name).Error
			if err != nil {
				return wrapConflict(err, fmt.Sprintf("recipe %q already exists", in.Name))
			}
			result = model.Updated
		}

		r, err := applyRecipe(tx, &recipe, in)
		if err != nil {
			return err
		}
		result = result.Merge(r)
		return nil
	})
	if err != nil {
		return nil, model.Unchanged, err
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, model.Unchanged, err
	}
	return recipe, result, nil
}

// DeleteRecipe 刪除食譜、其用量與引用它的菜色
func (s *Service) DeleteRecipe(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.IngredientAmount{}).Error; err != nil {
			return fmt.Errorf("delete amounts of recipe %d: %w", id, err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Dish{}).Error; err != nil {
			return fmt.Errorf("delete dishes of recipe %d: %w", id, err)
		}
		res := tx.Delete(&model.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound.Wrap(fmt.Errorf("recipe %d not found", id))
		}
		return nil
	})
}
