// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/qolzam/telar/apps/console/posts/models"
)

// PostRepository defines the data access contract for posts and topics
type PostRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListReported(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListReportedByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	CountReported(ctx context.Context) (int64, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)

	// Hide marks the post hidden; ErrPostNotFound when it does not exist
	Hide(ctx context.Context, postID string) error

	// DismissReports clears the post's report count; ErrPostNotFound when it does not exist
	DismissReports(ctx context.Context, postID string) error
}
