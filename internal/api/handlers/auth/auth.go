package auth

import (
	"context"
	"net/http"

	"meal-planner/internal/api/handlers"
	authService "meal-planner/internal/core/auth"
	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service 認證處理器需要的操作
type Service interface {
	Register(ctx context.Context, in authService.RegisterInput) (*model.User, model.UpsertResult, error)
	Login(ctx context.Context, username, password string) (authService.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (authService.TokenPair, error)
	Verify(ctx context.Context, token string) error
}

// TokenRequest 帳密登入
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest 換發 token
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// VerifyRequest 驗證 token
type VerifyRequest struct {
	Token string `json:"token"`
}

// Handler 認證處理程序
type Handler struct {
	svc Service
}

// NewHandler 創建認證處理程序
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register 註冊使用者
func (h *Handler) Register(c *gin.Context) {
	var req authService.RegisterInput
	if !handlers.BindJSON(c, &req) {
		return
	}

	user, result, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if result != model.Created {
		common.LogInfo("Registration rejected, user exists", zap.String("username", req.Username))
		common.AbortWithError(c, common.ErrInvalidRequest.WithMessage("User already exists"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
}

// Token 以帳密換取 token
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh 以 refresh token 換發新的 token
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Verify 驗證 token
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	if err := h.svc.Verify(c.Request.Context(), req.Token); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
