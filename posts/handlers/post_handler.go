// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/internal/pkg/query"
	"github.com/qolzam/telar/apps/console/posts/errors"
	"github.com/qolzam/telar/apps/console/posts/models"
	"github.com/qolzam/telar/apps/console/posts/services"
)

// PostHandler handles post and topic moderation requests
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler with injected dependencies
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List handles GET /posts?limit=&offset=
func (h *PostHandler) List(c *fiber.Ctx) error {
	var filter models.PostFilter
	if err := query.Decode(c, &filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	posts, err := h.postService.List(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "count": len(posts)})
}

// ListReported handles GET /posts/reported?limit=&offset=
func (h *PostHandler) ListReported(c *fiber.Ctx) error {
	var filter models.PostFilter
	if err := query.Decode(c, &filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	posts, err := h.postService.ListReported(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "count": len(posts)})
}

// Hide handles POST /posts/:postId/hide
func (h *PostHandler) Hide(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if err := h.postService.Hide(c.UserContext(), postID); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"postId": postID, "status": models.StatusHidden})
}

// Dismiss handles POST /posts/:postId/dismiss
func (h *PostHandler) Dismiss(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if err := h.postService.DismissReports(c.UserContext(), postID); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"postId": postID, "reportCount": 0})
}

// Topics handles GET /topics
func (h *PostHandler) Topics(c *fiber.Ctx) error {
	topics, err := h.postService.ListTopics(c.UserContext())
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"topics": topics})
}
