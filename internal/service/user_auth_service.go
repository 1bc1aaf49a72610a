package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultUserJWTExpireHours = 24

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      config.JWTConfig
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg config.JWTConfig, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// HashPassword 生成 bcrypt 密码哈希
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return defaultUserJWTExpireHours
	}
	return cfg.ExpireHours
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(resolveUserJWTExpireHours(s.cfg)) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid && claims.UserID > 0 {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Login 用户登录：校验邮箱密码与启用状态，签发 token
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	normalized, ok := normalizeEmail(email)
	if !ok {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	if err := cache.SetUserState(ctx, cache.BuildUserState(user)); err != nil {
		logger.Warnw("user_state_cache_write_failed", "user_id", user.ID, "error", err)
	}
	return user, token, expiresAt, nil
}

// ResolveUserState 获取用户鉴权快照，缓存未命中时回源数据库；用户不存在返回 nil
func (s *UserAuthService) ResolveUserState(ctx context.Context, userID uint) (*cache.UserState, error) {
	if state, hit, err := cache.GetUserState(ctx, userID); err == nil && hit {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	state := cache.BuildUserState(user)
	if err := cache.SetUserState(ctx, state); err != nil {
		logger.Warnw("user_state_cache_write_failed", "user_id", user.ID, "error", err)
	}
	return state, nil
}

func normalizeEmail(email string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", false
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", false
	}
	return normalized, true
}
