package auth

import (
	"context"
	"time"
)

// RevocationStore 記錄已撤銷的 refresh token (jti)
type RevocationStore interface {
	// Revoke 撤銷 jti 直到 expiresAt，之後 token 本身已失效
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}
