package meal

import (
	"context"
	"errors"
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Planner 餐點處理器需要的操作
type Planner interface {
	CreateMeal(ctx context.Context, userID uint, in planner.MealInput) (*model.Meal, error)
	GetMeal(ctx context.Context, userID, id uint) (*model.Meal, error)
	UpdateMeal(ctx context.Context, userID, id uint, in planner.MealInput) (*model.Meal, error)
	DeleteMeal(ctx context.Context, userID, id uint) error
	MealsInRange(ctx context.Context, userID uint, start, end model.Date) ([]model.Meal, error)
}

// ShoppingListBuilder 彙總購物清單
type ShoppingListBuilder interface {
	BuildShoppingList(ctx context.Context, start, end model.Date, scope model.Scope) (map[string]float64, error)
}

// ShoppingListResponse 購物清單回應
type ShoppingListResponse struct {
	IngredientList map[string]float64 `json:"ingredient_list"`
}

// Handler 餐點與購物清單處理程序
type Handler struct {
	planner     Planner
	shopping    ShoppingListBuilder
	globalScope bool
}

// NewHandler 創建餐點處理程序；globalScope 為 true 時購物清單涵蓋所有使用者
func NewHandler(p Planner, s ShoppingListBuilder, globalScope bool) *Handler {
	return &Handler{planner: p, shopping: s, globalScope: globalScope}
}

func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		common.AbortWithError(c, common.ErrUnauthorized)
	}
	return id, ok
}

// CreateMeal 建立餐點
func (h *Handler) CreateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req planner.MealInput
	if !handlers.BindJSON(c, &req) {
		return
	}

	meal, err := h.planner.CreateMeal(c.Request.Context(), userID, req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// GetMeal 取得餐點
func (h *Handler) GetMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	meal, err := h.planner.GetMeal(c.Request.Context(), userID, id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// UpdateMeal 更新餐點
func (h *Handler) UpdateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var req planner.MealInput
	if !handlers.BindJSON(c, &req) {
		return
	}

	meal, err := h.planner.UpdateMeal(c.Request.Context(), userID, id, req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// DeleteMeal 刪除餐點
func (h *Handler) DeleteMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.planner.DeleteMeal(c.Request.Context(), userID, id); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Schedule 列出使用者在區間內的餐點
func (h *Handler) Schedule(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	start, end, err := shopping.ParseRange(c.Param("start"), c.Param("end"))
	if err != nil {
		common.AbortWithError(c, shoppingError(err))
		return
	}

	meals, err := h.planner.MealsInRange(c.Request.Context(), userID, start, end)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// ShoppingList 彙總區間內的購物清單
func (h *Handler) ShoppingList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	start, end, err := shopping.ParseRange(c.Param("start"), c.Param("end"))
	if err != nil {
		common.AbortWithError(c, shoppingError(err))
		return
	}

	scope := model.UserScope(userID)
	if h.globalScope {
		scope = model.GlobalScope()
	}

	list, err := h.shopping.BuildShoppingList(c.Request.Context(), start, end, scope)
	if err != nil {
		common.AbortWithError(c, shoppingError(err))
		return
	}

	common.LogInfo("Shopping list served",
		zap.Uint("user_id", userID),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Bool("global_scope", h.globalScope),
		zap.Int("items", len(list)),
	)
	c.JSON(http.StatusOK, ShoppingListResponse{IngredientList: list})
}

// shoppingError 將彙總錯誤對應到 API 錯誤
func shoppingError(err error) error {
	switch {
	case errors.Is(err, shopping.ErrInvalidDateFormat):
		return common.ErrInvalidDateFormat.Wrap(err)
	case errors.Is(err, shopping.ErrInvalidRecipeState):
		return common.ErrInvalidRecipeState.Wrap(err)
	case errors.Is(err, shopping.ErrDanglingReference):
		return common.ErrDanglingReference.Wrap(err)
	default:
		return err
	}
}
