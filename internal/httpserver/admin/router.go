package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/gateway_insights/internal/app"
)

// Register wires up all /admin routes (auth + protected APIs).
func Register(app *fiber.App, container *app.Container) {
	authGroup := app.Group("/admin/auth")
	registerAuthRoutes(authGroup, container)

	protected := app.Group("/admin", adminAuthMiddleware(container))
	registerSessionRoutes(protected, container)
	registerActivityRoutes(protected, container)
	registerTeamRoutes(protected, container)
	registerProviderRoutes(protected, container)
}
