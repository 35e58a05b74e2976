package middleware

import (
	"context"
	"strings"

	"meal-planner/internal/core/auth"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

// Authenticator 驗證 access token
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (*auth.Claims, error)
}

// Auth 要求 Authorization: Bearer <access>，通過後把使用者寫入 context
func Auth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			common.AbortWithError(c, common.ErrUnauthorized.WithMessage("Authentication credentials were not provided"))
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			common.AbortWithError(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// UserID 取得已驗證的使用者 ID
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Claims 取得已驗證的 token claims
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
