// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package posts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/posts/handlers"
)

// PostsHandlers holds all the handlers this router needs
type PostsHandlers struct {
	PostHandler *handlers.PostHandler
}

// RegisterRoutes mounts post and topic moderation routes on an already authenticated group
func RegisterRoutes(router fiber.Router, h *PostsHandlers) {
	group := router.Group("/posts")

	group.Get("/", h.PostHandler.List)
	group.Get("/reported", h.PostHandler.ListReported)
	group.Post("/:postId/hide", h.PostHandler.Hide)
	group.Post("/:postId/dismiss", h.PostHandler.Dismiss)

	router.Get("/topics", h.PostHandler.Topics)
}
