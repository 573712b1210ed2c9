package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/auth"
	"github.com/ncecere/gateway_insights/internal/config"
	"github.com/ncecere/gateway_insights/internal/httpserver/httputil"
	"github.com/ncecere/gateway_insights/internal/store"
)

func registerAuthRoutes(router fiber.Router, container *app.Container) {
	handler := &authHandler{
		authService: container.AdminAuth,
		store:       container.Store,
		cfg:         container.Config.Admin,
	}

	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
}

func registerSessionRoutes(router fiber.Router, container *app.Container) {
	handler := &authHandler{
		authService: container.AdminAuth,
		store:       container.Store,
		cfg:         container.Config.Admin,
	}
	router.Get("/auth/me", handler.me)
}

type authHandler struct {
	authService *auth.AdminAuthService
	store       *store.Store
	cfg         config.AdminConfig
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             userResponse `json:"user"`
	RefreshToken     string       `json:"refresh_token,omitempty"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *authHandler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if req.Email == "" || req.Password == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "email and password required")
	}

	pair, user, err := h.authService.Authenticate(userContext(c), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}

	h.setRefreshCookie(c, pair)
	return c.JSON(buildTokenResponse(pair, user))
}

func (h *authHandler) refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token = strings.TrimSpace(c.Cookies(h.cfg.Session.CookieName))
	}
	if token == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "refresh token required")
	}

	pair, user, err := h.authService.Refresh(userContext(c), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid refresh token")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}

	h.setRefreshCookie(c, pair)
	return c.JSON(buildTokenResponse(pair, user))
}

func (h *authHandler) logout(c *fiber.Ctx) error {
	h.clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *authHandler) me(c *fiber.Ctx) error {
	userID, ok := adminUserIDFromContext(userContext(c))
	if !ok {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "admin authorization required")
	}

	user, err := h.store.GetAdminByID(userContext(c), userID.String())
	if errors.Is(err, store.ErrNotFound) {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "user not found")
	}
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(userResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func buildTokenResponse(pair *auth.TokenPair, user store.AdminUser) tokenResponse {
	return tokenResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		RefreshToken:     pair.RefreshToken,
		User: userResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}
}

func (h *authHandler) setRefreshCookie(c *fiber.Ctx, pair *auth.TokenPair) {
	secure := strings.EqualFold(c.Protocol(), "https")

	c.Cookie(&fiber.Cookie{
		Name:        h.cfg.Session.CookieName,
		Value:       pair.RefreshToken,
		HTTPOnly:    true,
		Secure:      secure,
		Path:        "/",
		Expires:     pair.RefreshExpiresAt,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: false,
	})
}

func (h *authHandler) clearRefreshCookie(c *fiber.Ctx) {
	secure := strings.EqualFold(c.Protocol(), "https")
	c.Cookie(&fiber.Cookie{
		Name:        h.cfg.Session.CookieName,
		Value:       "",
		Path:        "/",
		Expires:     time.Unix(0, 0),
		HTTPOnly:    true,
		Secure:      secure,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: false,
	})
}
