package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxUsernameLength = 150
	maxPasswordBytes  = 72
)

// RegisterInput 註冊資料
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Service 使用者註冊與 token 管理
type Service struct {
	db    *gorm.DB
	maker *JWTMaker
	store RevocationStore
}

// NewService 創建認證服務
func NewService(db *gorm.DB, maker *JWTMaker, store RevocationStore) *Service {
	return &Service{db: db, maker: maker, store: store}
}

var errBadCredentials = common.ErrUnauthorized.WithMessage("No active account found with the given credentials")

func invalid(message string) error {
	return common.ErrInvalidRequest.Wrap(common.NewValidationError(message))
}

// Register 建立使用者；使用者已存在時回傳 Unchanged
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, model.UpsertResult, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return nil, model.Unchanged, invalid("username is required")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return nil, model.Unchanged, invalid("username is too long")
	case in.Password == "":
		return nil, model.Unchanged, invalid("password is required")
	case len(in.Password) > maxPasswordBytes:
		return nil, model.Unchanged, invalid("password is too long")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, model.Unchanged, err
	}

	user := model.User{Username: username, Email: strings.TrimSpace(in.Email), Password: hashed}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return nil, model.Unchanged, fmt.Errorf("create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, model.Unchanged, nil
	}

	common.LogInfo("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &user, model.Created, nil
}

// Login 驗證帳密並簽發 token
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, errBadCredentials
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if err := CheckPassword(password, user.Password); err != nil {
		common.LogWarn("Login failed", zap.String("username", user.Username))
		return TokenPair{}, errBadCredentials
	}

	pair, _, err := s.maker.CreatePair(&user)
	return pair, err
}

// Refresh 以 refresh token 換發新的 token 組，舊的 refresh token 隨即撤銷
func (s *Service) Refresh(ctx context.Context, refresh string) (TokenPair, error) {
	claims, err := s.checkRefresh(ctx, refresh)
	if err != nil {
		return TokenPair{}, err
	}

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, common.ErrUnauthorized.WithMessage("User not found")
		}
		return TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.store.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return TokenPair{}, err
	}

	pair, _, err := s.maker.CreatePair(&user)
	return pair, err
}

// Verify 驗證任一類型的 token
func (s *Service) Verify(ctx context.Context, token string) error {
	claims, err := s.maker.VerifyToken(token, "")
	if err != nil {
		return common.ErrUnauthorized.WithMessage("Token is invalid or expired").Wrap(err)
	}
	if claims.TokenType == RefreshToken {
		_, err = s.checkRefresh(ctx, token)
	}
	return err
}

// Authenticate 驗證 access token
func (s *Service) Authenticate(_ context.Context, access string) (*Claims, error) {
	claims, err := s.maker.VerifyToken(access, AccessToken)
	if err != nil {
		return nil, common.ErrUnauthorized.WithMessage("Token is invalid or expired").Wrap(err)
	}
	return claims, nil
}

func (s *Service) checkRefresh(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.maker.VerifyToken(token, RefreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized.WithMessage("Token is invalid or expired").Wrap(err)
	}
	revoked, err := s.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrUnauthorized.WithMessage("Token is blacklisted")
	}
	return claims, nil
}
