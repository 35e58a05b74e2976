package catalog

import (
	"context"
	"net/http"

	"meal-planner/internal/api/handlers"
	catalogService "meal-planner/internal/core/catalog"
	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Service 目錄處理器需要的操作
type Service interface {
	CreateIngredient(ctx context.Context, name string) (*model.Ingredient, model.UpsertResult, error)
	GetIngredient(ctx context.Context, id uint) (*model.Ingredient, error)
	ListIngredients(ctx context.Context, page catalogService.Page) ([]model.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uint, name string) (*model.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uint) error

	CreateRecipe(ctx context.Context, in catalogService.RecipeInput) (*model.Recipe, model.UpsertResult, error)
	GetRecipe(ctx context.Context, id uint) (*model.Recipe, error)
	ListRecipes(ctx context.Context, page catalogService.Page) ([]model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, in catalogService.RecipeInput) (*model.Recipe, model.UpsertResult, error)
	DeleteRecipe(ctx context.Context, id uint) error
}

// IngredientRequest 建立或重新命名食材
type IngredientRequest struct {
	Name string `json:"name"`
}

// Handler 食材與食譜處理程序
type Handler struct {
	svc Service
}

// NewHandler 創建目錄處理程序
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func bindPage(c *gin.Context) (catalogService.Page, bool) {
	var page catalogService.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		common.AbortWithError(c, common.ErrInvalidRequest.WithMessage("Invalid page parameters").Wrap(err))
		return page, false
	}
	return page, true
}

// CreateIngredient 建立食材
func (h *Handler) CreateIngredient(c *gin.Context) {
	var req IngredientRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ing, result, err := h.svc.CreateIngredient(c.Request.Context(), req.Name)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	handlers.RespondUpsert(c, ing.ID, result)
}

// ListIngredients 分頁列出食材
func (h *Handler) ListIngredients(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	list, err := h.svc.ListIngredients(c.Request.Context(), page)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetIngredient 取得食材
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	ing, err := h.svc.GetIngredient(c.Request.Context(), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// UpdateIngredient 重新命名食材
func (h *Handler) UpdateIngredient(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var req IngredientRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ing, err := h.svc.UpdateIngredient(c.Request.Context(), id, req.Name)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// DeleteIngredient 刪除食材
func (h *Handler) DeleteIngredient(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteIngredient(c.Request.Context(), id); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateRecipe 建立或更新食譜
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req catalogService.RecipeInput
	if !handlers.BindJSON(c, &req) {
		return
	}

	recipe, result, err := h.svc.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	handlers.RespondUpsert(c, recipe.ID, result)
}

// ListRecipes 分頁列出食譜
func (h *Handler) ListRecipes(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	list, err := h.svc.ListRecipes(c.Request.Context(), page)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetRecipe 取得食譜
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// UpdateRecipe 更新食譜
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var req catalogService.RecipeInput
	if !handlers.BindJSON(c, &req) {
		return
	}

	recipe, _, err := h.svc.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe 刪除食譜
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteRecipe(c.Request.Context(), id); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
