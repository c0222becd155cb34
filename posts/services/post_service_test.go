// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	postsErrors "github.com/qolzam/telar/apps/console/posts/errors"
	"github.com/qolzam/telar/apps/console/posts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()

	t.Run("Hide leaves stats valid", func(t *testing.T) {
		repo := new(MockPostRepository)
		stats := new(MockStatsInvalidator)
		repo.On("Hide", ctx, "p1").Return(nil)

		require.NoError(t, NewPostService(repo, stats).Hide(ctx, "p1"))
		repo.AssertExpectations(t)
		stats.AssertNotCalled(t, "InvalidateCache", mock.Anything)
	})

	t.Run("Dismiss invalidates stats", func(t *testing.T) {
		repo := new(MockPostRepository)
		stats := new(MockStatsInvalidator)
		repo.On("DismissReports", ctx, "p1").Return(nil)
		stats.On("InvalidateCache", mock.Anything).Return(nil)

		require.NoError(t, NewPostService(repo, stats).DismissReports(ctx, "p1"))
		stats.AssertNumberOfCalls(t, "InvalidateCache", 1)
	})

	t.Run("Dismiss of a missing post leaves stats alone", func(t *testing.T) {
		repo := new(MockPostRepository)
		stats := new(MockStatsInvalidator)
		repo.On("DismissReports", ctx, "p9").Return(postsErrors.ErrPostNotFound)

		err := NewPostService(repo, stats).DismissReports(ctx, "p9")
		assert.ErrorIs(t, err, postsErrors.ErrPostNotFound)
		stats.AssertNotCalled(t, "InvalidateCache", mock.Anything)
	})

	t.Run("Invalidation failure does not fail the moderation action", func(t *testing.T) {
		repo := new(MockPostRepository)
		stats := new(MockStatsInvalidator)
		repo.On("DismissReports", ctx, "p1").Return(nil)
		stats.On("InvalidateCache", mock.Anything).Return(errors.New("closed"))

		assert.NoError(t, NewPostService(repo, stats).DismissReports(ctx, "p1"))
	})

	t.Run("Blank ids are rejected", func(t *testing.T) {
		svc := NewPostService(new(MockPostRepository), nil)
		assert.ErrorIs(t, svc.Hide(ctx, ""), postsErrors.ErrInvalidPostID)
		assert.ErrorIs(t, svc.DismissReports(ctx, " "), postsErrors.ErrInvalidPostID)
	})

	t.Run("Reported posts are summarised with epoch millis", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		repo := new(MockPostRepository)
		repo.On("ListReportedByAuthor", ctx, "u1", 5).Return([]models.Post{
			{ID: "p1", Title: "Spam", Content: "buy", ReportCount: 4, CreatedAt: created},
		}, nil)

		summaries, err := NewPostService(repo, nil).ReportedPostsByAuthor(ctx, "u1", 5)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "Spam", summaries[0].Title)
		assert.Equal(t, 4, summaries[0].ReportCount)
		assert.Equal(t, created.UnixMilli(), summaries[0].CreatedAt)
	})

	t.Run("Listing passes paging through", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("ListReported", ctx, 20, 40).Return([]models.Post{{ID: "p1"}}, nil)

		posts, err := NewPostService(repo, nil).ListReported(ctx, models.PostFilter{Limit: 20, Offset: 40})
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}
