package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ncecere/gateway_insights/internal/config"
	"github.com/ncecere/gateway_insights/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminAuthService authenticates dashboard operators and issues session tokens.
type AdminAuthService struct {
	store        *store.Store
	tokenManager *TokenManager
}

func NewAdminAuthService(cfg config.AdminConfig, st *store.Store) (*AdminAuthService, error) {
	tokenManager, err := NewTokenManager(cfg.Session.JWTSecret, cfg.Session.AccessTokenTTL, cfg.Session.RefreshTokenTTL, "gateway-insights-admin")
	if err != nil {
		return nil, err
	}
	return &AdminAuthService{
		store:        st,
		tokenManager: tokenManager,
	}, nil
}

func (s *AdminAuthService) Tokens() *TokenManager {
	return s.tokenManager
}

// Authenticate verifies an email/password pair and returns a fresh token pair.
func (s *AdminAuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, store.AdminUser, error) {
	user, err := s.store.GetAdminByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.AdminUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, store.AdminUser{}, fmt.Errorf("lookup admin: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, store.AdminUser{}, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, store.AdminUser{}, fmt.Errorf("parse admin id: %w", err)
	}

	pair, err := s.tokenManager.Generate(userID, user.Email)
	if err != nil {
		return nil, store.AdminUser{}, err
	}
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AdminAuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, store.AdminUser, error) {
	userID, err := s.tokenManager.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, store.AdminUser{}, ErrInvalidCredentials
	}

	user, err := s.store.GetAdminByID(ctx, userID.String())
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.AdminUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, store.AdminUser{}, fmt.Errorf("lookup admin: %w", err)
	}

	pair, err := s.tokenManager.Generate(userID, user.Email)
	if err != nil {
		return nil, store.AdminUser{}, err
	}
	return pair, user, nil
}
