package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/gateway_insights/internal/activity"
	"github.com/ncecere/gateway_insights/internal/app"
	"github.com/ncecere/gateway_insights/internal/httpserver/httputil"
	reportingsvc "github.com/ncecere/gateway_insights/internal/services/reporting"
)

type activityHandler struct {
	service *reportingsvc.Service
}

func registerActivityRoutes(router fiber.Router, container *app.Container) {
	handler := &activityHandler{service: container.Reporting}

	group := router.Group("/activity")
	group.Get("/daily", handler.daily)
	group.Get("/breakdown", handler.breakdown)
	group.Get("/categories", handler.categories)
}

func (h *activityHandler) daily(c *fiber.Ctx) error {
	if h.service == nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "reporting service unavailable")
	}

	params, err := parseWindowParams(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.DailyActivity(userContext(c), params)
	if err != nil {
		return writeReportingError(c, err)
	}
	return c.JSON(result)
}

func (h *activityHandler) breakdown(c *fiber.Ctx) error {
	if h.service == nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "reporting service unavailable")
	}

	category := activity.Category(strings.ToLower(strings.TrimSpace(c.Query("category"))))
	if category == "" {
		category = activity.CategoryModels
	}

	params, err := parseWindowParams(c)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Breakdown(userContext(c), params, category)
	if err != nil {
		return writeReportingError(c, err)
	}
	return c.JSON(result)
}

func (h *activityHandler) categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": activity.Categories(),
	})
}

func parseWindowParams(c *fiber.Ctx) (reportingsvc.WindowParams, error) {
	params := reportingsvc.WindowParams{
		Period:   strings.TrimSpace(c.Query("period")),
		Timezone: strings.TrimSpace(c.Query("timezone")),
	}

	startPtr, endPtr, err := parseRangeParams(c.Query("start"), c.Query("end"))
	if err != nil {
		return reportingsvc.WindowParams{}, err
	}
	params.Start = startPtr
	params.End = endPtr
	return params, nil
}

// parseRangeParams accepts RFC3339 timestamps or bare calendar dates.
func parseRangeParams(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	parse := func(value string) (*time.Time, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, nil
		}
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return &ts, nil
		}
		ts, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, errors.New("start/end must be RFC3339 or YYYY-MM-DD")
		}
		return &ts, nil
	}

	startPtr, err := parse(startRaw)
	if err != nil {
		return nil, nil, err
	}
	endPtr, err := parse(endRaw)
	if err != nil {
		return nil, nil, err
	}
	return startPtr, endPtr, nil
}

func writeReportingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reportingsvc.ErrInvalidPeriod):
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid period")
	case errors.Is(err, reportingsvc.ErrInvalidTimezone):
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid timezone")
	case errors.Is(err, reportingsvc.ErrInvalidRange):
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid date range")
	case errors.Is(err, reportingsvc.ErrInvalidCategory):
		return httputil.WriteError(c, fiber.StatusBadRequest, "category must be one of models, model_groups, mcp_servers, providers, api_keys, entities")
	case errors.Is(err, reportingsvc.ErrWindowTooLarge):
		return httputil.WriteError(c, fiber.StatusBadRequest, "requested window is too large")
	}
	return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
}
