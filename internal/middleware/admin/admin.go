package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/internal/types"
)

type Config struct {
	UserCtxName string
	// Optional override; defaults to UserContext.IsStaff
	HasAccess func(u types.UserContext) bool
}

func New(config Config) fiber.Handler {
	userKey := config.UserCtxName
	if userKey == "" {
		userKey = types.UserCtxName
	}
	hasAccess := config.HasAccess
	if hasAccess == nil {
		hasAccess = types.UserContext.IsStaff
	}
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(userKey).(types.UserContext)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "missing user context",
			})
		}
		if !hasAccess(user) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":    "FORBIDDEN",
				"message": "moderator access required",
			})
		}
		return c.Next()
	}
}
