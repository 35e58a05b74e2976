package auth

import (
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretSize = 32

// TokenType access 或 refresh
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims JWT 內容
type Claims struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登入與刷新回傳的 token 組
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// JWTMaker 簽發與驗證 HS256 token
type JWTMaker struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTMaker 創建 JWTMaker
func NewJWTMaker(secret, issuer string, accessTTL, refreshTTL time.Duration) (*JWTMaker, error) {
	if len(secret) < minSecretSize {
		return nil, fmt.Errorf("invalid secret size: must be at least %d characters", minSecretSize)
	}
	return &JWTMaker{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// CreateToken 為使用者簽發指定類型的 token
func (m *JWTMaker) CreateToken(user *model.User, tokenType TokenType) (string, *Claims, error) {
	ttl := m.accessTTL
	if tokenType == RefreshToken {
		ttl = m.refreshTTL
	}

	now := m.now()
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        common.GenerateUUID(),
			Issuer:    m.issuer,
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// CreatePair 簽發 access 與 refresh token
func (m *JWTMaker) CreatePair(user *model.User) (TokenPair, *Claims, error) {
	access, _, err := m.CreateToken(user, AccessToken)
	if err != nil {
		return TokenPair{}, nil, err
	}
	refresh, refreshClaims, err := m.CreateToken(user, RefreshToken)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return TokenPair{Access: access, Refresh: refresh}, refreshClaims, nil
}

// VerifyToken 驗證簽章、期限與類型；tokenType 為空時接受任一類型
func (m *JWTMaker) VerifyToken(token string, tokenType TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if tokenType != "" && claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}
