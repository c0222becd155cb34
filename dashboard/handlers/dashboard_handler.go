// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/dashboard/errors"
	"github.com/qolzam/telar/apps/console/dashboard/services"
	"github.com/qolzam/telar/apps/console/internal/pkg/query"
)

// DashboardHandler handles dashboard requests
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler with injected dependencies
func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type refreshQuery struct {
	Refresh bool `schema:"refresh"`
}

func parseRefresh(c *fiber.Ctx) (bool, error) {
	var q refreshQuery
	if err := query.Decode(c, &q); err != nil {
		return false, err
	}
	return q.Refresh, nil
}

// Stats handles GET /dashboard/stats?refresh=
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	refresh, err := parseRefresh(c)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	result, err := h.dashboardService.GetStats(c.UserContext(), refresh)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// Posts handles GET /dashboard/posts?refresh=
func (h *DashboardHandler) Posts(c *fiber.Ctx) error {
	refresh, err := parseRefresh(c)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	result, err := h.dashboardService.GetRecentPosts(c.UserContext(), refresh)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// Topics handles GET /dashboard/topics?refresh=
func (h *DashboardHandler) Topics(c *fiber.Ctx) error {
	refresh, err := parseRefresh(c)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	result, err := h.dashboardService.GetTopics(c.UserContext(), refresh)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// Invalidate handles POST /dashboard/invalidate
func (h *DashboardHandler) Invalidate(c *fiber.Ctx) error {
	if err := h.dashboardService.Invalidate(c.UserContext()); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear handles POST /dashboard/clear
func (h *DashboardHandler) Clear(c *fiber.Ctx) error {
	if err := h.dashboardService.Clear(c.UserContext()); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
