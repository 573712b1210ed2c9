package admin

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/httpserver/httputil"
)

type adminContextKey string

const (
	adminAuthHeaderPrefix  = "bearer "
	adminContextUserIDKey  = adminContextKey("gateway-insights/admin-user-id")
	adminAuthorizationName = "Authorization"
)

func adminAuthMiddleware(container *app.Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(adminAuthorizationName))
		token := ""
		if raw != "" && strings.HasPrefix(strings.ToLower(raw), adminAuthHeaderPrefix) {
			token = strings.TrimSpace(raw[len(adminAuthHeaderPrefix):])
		}
		if token == "" {
			token = strings.TrimSpace(c.Cookies(container.Config.Admin.Session.CookieName))
		}
		if token == "" {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "admin authorization required")
		}

		userID, err := container.AdminAuth.Tokens().ValidateAccess(token)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		ctx := context.WithValue(userContext(c), adminContextUserIDKey, userID)
		c.SetUserContext(ctx)
		c.Locals("adminUserID", userID.String())
		return c.Next()
	}
}

func adminUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.UUID{}, false
	}
	val := ctx.Value(adminContextUserIDKey)
	if val == nil {
		return uuid.UUID{}, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func userContext(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}
