// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/dashboard/handlers"
)

// DashboardHandlers holds all the handlers this router needs
type DashboardHandlers struct {
	DashboardHandler *handlers.DashboardHandler
}

// RegisterRoutes mounts the dashboard routes on an already authenticated group
func RegisterRoutes(router fiber.Router, h *DashboardHandlers) {
	group := router.Group("/dashboard")

	group.Get("/stats", h.DashboardHandler.Stats)
	group.Get("/posts", h.DashboardHandler.Posts)
	group.Get("/topics", h.DashboardHandler.Topics)
	group.Post("/invalidate", h.DashboardHandler.Invalidate)
	group.Post("/clear", h.DashboardHandler.Clear)
}
