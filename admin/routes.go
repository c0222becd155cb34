// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/dashboard"
	adminmw "github.com/qolzam/telar/apps/console/internal/middleware/admin"
	"github.com/qolzam/telar/apps/console/internal/middleware/authjwt"
	"github.com/qolzam/telar/apps/console/internal/types"
	"github.com/qolzam/telar/apps/console/posts"
	"github.com/qolzam/telar/apps/console/users"
)

// Handlers groups the handlers of every console area
type Handlers struct {
	Users     *users.UsersHandlers
	Posts     *posts.PostsHandlers
	Dashboard *dashboard.DashboardHandlers
}

// RouterConfig configures the authenticated console group
type RouterConfig struct {
	BaseRoute string
	PublicKey string
	ClaimKey  string
}

// RegisterRoutes mounts every console route behind JWT authentication and the staff role check
func RegisterRoutes(app *fiber.App, handlers *Handlers, cfg RouterConfig) fiber.Router {
	base := cfg.BaseRoute
	if base == "" {
		base = "/admin"
	}

	group := app.Group(base,
		authjwt.New(authjwt.Config{
			PublicKey:   cfg.PublicKey,
			ClaimKey:    cfg.ClaimKey,
			UserCtxName: types.UserCtxName,
		}),
		adminmw.New(adminmw.Config{UserCtxName: types.UserCtxName}),
	)

	users.RegisterRoutes(group, handlers.Users)
	posts.RegisterRoutes(group, handlers.Posts)
	dashboard.RegisterRoutes(group, handlers.Dashboard)
	return group
}
