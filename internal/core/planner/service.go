package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ shopping.MealFinder = (*Service)(nil)

// Service 餐點規劃
type Service struct {
	db *gorm.DB
}

// NewService 創建餐點服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func invalid(format string, args ...interface{}) error {
	return common.ErrInvalidRequest.Wrap(common.NewValidationError(fmt.Sprintf(format, args...)))
}

func notFound(format string, args ...interface{}) error {
	return common.ErrNotFound.Wrap(fmt.Errorf(format+" not found", args...))
}

func validateMealInput(in *MealInput) error {
	if in.Date.IsZero() {
		return invalid("date is required, use YYYY-MM-DD")
	}
	if !in.Type.Valid() {
		return invalid("unsupported meal %q, use br, lu, dr or sn", in.Type)
	}
	for i := range in.Dishes {
		d := &in.Dishes[i]
		if d.Portions == 0 {
			d.Portions = 1
		}
		if err := catalog.ValidatePortions(d.Portions); err != nil {
			return err
		}
		if d.RecipeID == 0 && d.Recipe == nil {
			return invalid("dish %d needs a recipe_id or a recipe", i)
		}
	}
	for i := range in.Extras {
		e := &in.Extras[i]
		if _, err := catalog.ValidateName("extra item", e.Item.Name); err != nil {
			return err
		}
		if err := catalog.ValidateQuantity(e.Unit, e.Amount); err != nil {
			return fmt.Errorf("extra %q: %w", e.Item.Name, err)
		}
	}
	return nil
}

func preloadMeal(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("dishes.id") }).
		Preload("Dishes.Recipe.Amounts.Ingredient").
		Preload("Extras", func(db *gorm.DB) *gorm.DB { return db.Order("extra_items.id") }).
		Preload("Extras.Item")
}

// CreateMeal 在單一交易中建立餐點、菜色與額外食材
func (s *Service) CreateMeal(ctx context.Context, userID uint, in MealInput) (*model.Meal, error) {
	if err := validateMealInput(&in); err != nil {
		return nil, err
	}

	meal := model.Meal{UserID: userID, Date: in.Date, Type: in.Type}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&meal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict.WithMessage("cannot plan two meals for the same slot").Wrap(
					fmt.Errorf("%s %s already planned", in.Date, in.Type.DisplayName()))
			}
			return fmt.Errorf("create meal: %w", err)
		}
		return s.addChildren(tx, meal.ID, in)
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("Meal created",
		zap.Uint("meal_id", meal.ID),
		zap.Uint("user_id", userID),
		zap.String("date", in.Date.String()),
		zap.String("meal", string(in.Type)),
		zap.Int("dishes", len(in.Dishes)),
		zap.Int("extras", len(in.Extras)),
	)

	return s.GetMeal(ctx, userID, meal.ID)
}

func (s *Service) addChildren(tx *gorm.DB, mealID uint, in MealInput) error {
	for _, d := range in.Dishes {
		recipe, err := resolveRecipe(tx, d)
		if err != nil {
			return err
		}
		if err := upsertDish(tx, mealID, recipe.ID, d.Portions); err != nil {
			return err
		}
	}

	for _, e := range in.Extras {
		item, _, err := catalog.UpsertIngredient(tx, e.Item.Name)
		if err != nil {
			return err
		}
		extra := model.ExtraItem{MealID: mealID, ItemID: item.ID, Unit: e.Unit, Amount: e.Amount}
		if err := tx.Omit(clause.Associations).Create(&extra).Error; err != nil {
			return fmt.Errorf("create extra %q: %w", item.Name, err)
		}
	}
	return nil
}

func resolveRecipe(tx *gorm.DB, d DishInput) (*model.Recipe, error) {
	if d.RecipeID != 0 {
		var recipe model.Recipe
		err := tx.First(&recipe, d.RecipeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe %d", d.RecipeID)
		}
		if err != nil {
			return nil, fmt.Errorf("get recipe %d: %w", d.RecipeID, err)
		}
		return &recipe, nil
	}
	if d.Recipe.IsReference() {
		return catalog.FindRecipeByName(tx, d.Recipe.Name)
	}
	recipe, _, err := catalog.UpsertRecipe(tx, *d.Recipe)
	return recipe, err
}

// upsertDish 同一餐同一食譜只保留一道菜，重複時更新份數
func upsertDish(tx *gorm.DB, mealID, recipeID uint, portions int) error {
	var dish model.Dish
	err := tx.Where("meal_id = ? AND recipe_id = ?", mealID, recipeID).First(&dish).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		dish = model.Dish{MealID: mealID, RecipeID: recipeID, Portions: portions}
		if err := tx.Omit(clause.Associations).Create(&dish).Error; err != nil {
			return fmt.Errorf("create dish: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("get dish: %w", err)
	}
	if err := tx.Model(&dish).Update("portions", portions).Error; err != nil {
		return fmt.Errorf("update dish %d: %w", dish.ID, err)
	}
	return nil
}

// GetMeal 取得使用者自己的餐點
func (s *Service) GetMeal(ctx context.Context, userID, id uint) (*model.Meal, error) {
	var meal model.Meal
	err := preloadMeal(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("meal %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get meal %d: %w", id, err)
	}
	return &meal, nil
}

// UpdateMeal 更新日期與餐別，並以輸入取代原有菜色與額外食材
func (s *Service) UpdateMeal(ctx context.Context, userID, id uint, in MealInput) (*model.Meal, error) {
	if err := validateMealInput(&in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal model.Meal
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&meal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("meal %d", id)
		}
		if err != nil {
			return fmt.Errorf("get meal %d: %w", id, err)
		}

		err = tx.Model(&meal).Omit(clause.Associations).
			Updates(map[string]interface{}{"date": in.Date, "meal": in.Type}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict.WithMessage("cannot plan two meals for the same slot").Wrap(err)
			}
			return fmt.Errorf("update meal %d: %w", id, err)
		}

		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		return s.addChildren(tx, id, in)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeal(ctx, userID, id)
}

func deleteChildren(tx *gorm.DB, mealID uint) error {
	if err := tx.Where("meal_id = ?", mealID).Delete(&model.Dish{}).Error; err != nil {
		return fmt.Errorf("delete dishes of meal %d: %w", mealID, err)
	}
	if err := tx.Where("meal_id = ?", mealID).Delete(&model.ExtraItem{}).Error; err != nil {
		return fmt.Errorf("delete extras of meal %d: %w", mealID, err)
	}
	return nil
}

// DeleteMeal 刪除使用者自己的餐點
func (s *Service) DeleteMeal(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal model.Meal
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&meal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("meal %d", id)
		}
		if err != nil {
			return fmt.Errorf("get meal %d: %w", id, err)
		}
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&meal).Error; err != nil {
			return fmt.Errorf("delete meal %d: %w", id, err)
		}
		return nil
	})
}

// MealsInRange 使用者在 [start, end] 內的餐點
func (s *Service) MealsInRange(ctx context.Context, userID uint, start, end model.Date) ([]model.Meal, error) {
	return s.FindMealsInRange(ctx, start, end, model.UserScope(userID))
}

// FindMealsInRange 在同一個唯讀交易中讀取區間內的餐點與其完整關聯
func (s *Service) FindMealsInRange(ctx context.Context, start, end model.Date, scope model.Scope) ([]model.Meal, error) {
	var opts []*sql.TxOptions
	if database.IsPostgres(s.db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	meals := []model.Meal{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := preloadMeal(tx).Where("meals.date BETWEEN ? AND ?", start, end)
		if !scope.AllUsers {
			q = q.Where("meals.user_id = ?", scope.UserID)
		}
		return q.Order("meals.date").Order("meals.id").Find(&meals).Error
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("find meals between %s and %s: %w", start, end, err)
	}
	return meals, nil
}
