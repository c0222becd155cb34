// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/qolzam/telar/apps/console/internal/pkg/query"
	"github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/services"
)

// UserHandler handles moderation requests for users
type UserHandler struct {
	userService       services.UserService
	escalationService services.EscalationService
}

// NewUserHandler creates a new UserHandler with injected dependencies
func NewUserHandler(userService services.UserService, escalationService services.EscalationService) *UserHandler {
	return &UserHandler{
		userService:       userService,
		escalationService: escalationService,
	}
}

// List handles GET /users?search=&status=&limit=&offset=
func (h *UserHandler) List(c *fiber.Ctx) error {
	var filter models.UserFilter
	if err := query.Decode(c, &filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	users, err := h.userService.List(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// Get handles GET /users/:userId
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), userIDParam(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(user)
}

// Escalate handles POST /users/:userId/escalate.
// The body is always the escalation result; the HTTP status reflects its outcome.
func (h *UserHandler) Escalate(c *fiber.Ctx) error {
	result := h.escalationService.Escalate(c.UserContext(), userIDParam(c))
	status := http.StatusOK
	if !result.Success {
		status = errors.StatusCode(result.Err())
	}
	return c.Status(status).JSON(result)
}

// IsBanned handles GET /users/:userId/banned
func (h *UserHandler) IsBanned(c *fiber.Ctx) error {
	userID := userIDParam(c)
	return c.JSON(fiber.Map{
		"userId": userID,
		"banned": h.escalationService.IsBanned(c.UserContext(), userID),
	})
}

// Reset handles POST /users/:userId/reset
func (h *UserHandler) Reset(c *fiber.Ctx) error {
	result, err := h.userService.Reset(c.UserContext(), userIDParam(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

type historyQuery struct {
	Limit int `schema:"limit"`
}

// History handles GET /users/:userId/history?limit=
func (h *UserHandler) History(c *fiber.Ctx) error {
	var q historyQuery
	if err := query.Decode(c, &q); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	entries, err := h.userService.History(c.UserContext(), userIDParam(c), q.Limit)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"history": entries})
}

// userIDParam copies the route param out of the request buffer fasthttp reuses after the handler returns
func userIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("userId"))
}
