// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package users

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/users/handlers"
)

// UsersHandlers holds all the handlers this router needs
type UsersHandlers struct {
	UserHandler *handlers.UserHandler
}

// RegisterRoutes mounts the user moderation routes on an already authenticated group
func RegisterRoutes(router fiber.Router, h *UsersHandlers) {
	group := router.Group("/users")

	group.Get("/", h.UserHandler.List)
	group.Get("/:userId", h.UserHandler.Get)
	group.Get("/:userId/banned", h.UserHandler.IsBanned)
	group.Get("/:userId/history", h.UserHandler.History)
	group.Post("/:userId/escalate", h.UserHandler.Escalate)
	group.Post("/:userId/reset", h.UserHandler.Reset)
}
