package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/catalog"
	"github.com/ncecere/gateway_insights/internal/httpserver/httputil"
)

type providerHandler struct {
	fields *catalog.FieldCatalog
}

func registerProviderRoutes(router fiber.Router, container *app.Container) {
	handler := &providerHandler{fields: container.Fields}

	group := router.Group("/providers")
	group.Get("/", handler.list)
	group.Get("/:provider/fields", handler.fieldsForProvider)
}

func (h *providerHandler) list(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"providers": h.fields.Providers(),
	})
}

func (h *providerHandler) fieldsForProvider(c *fiber.Ctx) error {
	provider := c.Params("provider")
	fields, ok := h.fields.Fields(provider)
	if !ok {
		return httputil.WriteError(c, fiber.StatusNotFound, "unknown provider")
	}
	return c.JSON(fiber.Map{
		"provider": catalog.NormalizeProviderSlug(provider),
		"fields":   fields,
	})
}
