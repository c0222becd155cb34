package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	withRole := func(role string, cfg Config) *fiber.App {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(types.UserCtxName, types.UserContext{SystemRole: role})
			}
			return c.Next()
		})
		app.Use(New(cfg))
		app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
		return app
	}

	cases := []struct {
		name   string
		role   string
		cfg    Config
		status int
	}{
		{name: "Missing user", status: http.StatusUnauthorized},
		{name: "Regular user", role: types.UserRole, status: http.StatusForbidden},
		{name: "Moderator", role: types.ModeratorRole, status: http.StatusOK},
		{name: "Admin", role: types.AdminRole, status: http.StatusOK},
		{
			name:   "Custom policy",
			role:   types.ModeratorRole,
			cfg:    Config{HasAccess: func(u types.UserContext) bool { return u.SystemRole == types.AdminRole }},
			status: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := withRole(tc.role, tc.cfg).Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
