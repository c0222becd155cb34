// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/telar/apps/console/dashboard/cache"
	"github.com/qolzam/telar/apps/console/dashboard/services"
	kv "github.com/qolzam/telar/apps/console/internal/cache"
	userModels "github.com/qolzam/telar/apps/console/users/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, users *services.MockUserCounter, posts *services.MockPostSource) (*fiber.App, *cache.Manager) {
	t.Helper()
	manager := cache.NewManager(kv.NewMemoryStore())
	h := NewDashboardHandler(services.NewDashboardService(manager, users, posts))
	app := fiber.New()
	app.Get("/dashboard/stats", h.Stats)
	app.Get("/dashboard/posts", h.Posts)
	app.Get("/dashboard/topics", h.Topics)
	app.Post("/dashboard/invalidate", h.Invalidate)
	app.Post("/dashboard/clear", h.Clear)
	return app, manager
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}

func TestDashboardHandler_Stats(t *testing.T) {
	t.Run("Refresh query forces a remote read", func(t *testing.T) {
		users := new(services.MockUserCounter)
		posts := new(services.MockPostSource)
		users.On("Count", mock.Anything).Return(int64(11), nil)
		users.On("CountByStatus", mock.Anything, userModels.StatusBanned).Return(int64(1), nil)
		posts.On("Count", mock.Anything).Return(int64(30), nil)
		posts.On("CountReported", mock.Anything).Return(int64(2), nil)

		app, manager := newTestApp(t, users, posts)
		require.NoError(t, manager.SaveStats(context.Background(), cache.DashboardStats{TotalUsers: 1}))

		resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/stats?refresh=true", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body services.StatsResult
		decode(t, resp, &body)
		assert.Equal(t, services.SourceRemote, body.Source)
		assert.Equal(t, int64(11), body.Stats.TotalUsers)
		assert.Equal(t, int64(2), body.Stats.ReportedPosts)
	})

	t.Run("Invalid refresh value returns 400", func(t *testing.T) {
		app, _ := newTestApp(t, new(services.MockUserCounter), new(services.MockPostSource))

		resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/stats?refresh=maybe", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Nothing cached and remote down returns 503", func(t *testing.T) {
		posts := new(services.MockPostSource)
		posts.On("ListTopics", mock.Anything).Return(nil, errors.New("down"))
		app, _ := newTestApp(t, new(services.MockUserCounter), posts)

		resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/topics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestDashboardHandler_InvalidateAndClear(t *testing.T) {
	ctx := context.Background()
	app, manager := newTestApp(t, new(services.MockUserCounter), new(services.MockPostSource))
	require.NoError(t, manager.SaveStats(ctx, cache.DashboardStats{TotalUsers: 4}))

	resp, err := app.Test(httptest.NewRequest("POST", "/dashboard/invalidate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, manager.IsCacheValid(ctx))

	resp, err = app.Test(httptest.NewRequest("POST", "/dashboard/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok := manager.GetStats(ctx)
	assert.False(t, ok)
}
