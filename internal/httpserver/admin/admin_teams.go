package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/gateway_insights/internal/activity"
	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/httpserver/httputil"
	"github.com/ncecere/gateway_insights/internal/store"
)

type teamHandler struct {
	container *app.Container
	store     *store.Store
}

func registerTeamRoutes(router fiber.Router, container *app.Container) {
	handler := &teamHandler{container: container, store: container.Store}

	group := router.Group("/teams")
	group.Get("/", handler.list)
	group.Put("/", handler.upsert)
}

func (h *teamHandler) list(c *fiber.Ctx) error {
	teams, err := h.container.Reporting.Teams(userContext(c))
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"teams": teams,
	})
}

type upsertTeamRequest struct {
	TeamID    string `json:"team_id"`
	TeamAlias string `json:"team_alias"`
}

func (h *teamHandler) upsert(c *fiber.Ctx) error {
	var req upsertTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.TeamID = strings.TrimSpace(req.TeamID)
	req.TeamAlias = strings.TrimSpace(req.TeamAlias)
	if req.TeamID == "" || req.TeamAlias == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "team_id and team_alias required")
	}

	team := activity.Team{TeamID: req.TeamID, TeamAlias: req.TeamAlias}
	if err := h.store.UpsertTeam(userContext(c), team); err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(team)
}
