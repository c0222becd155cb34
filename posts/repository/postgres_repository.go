// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/qolzam/telar/apps/console/internal/database/postgres"
	postsErrors "github.com/qolzam/telar/apps/console/posts/errors"
	"github.com/qolzam/telar/apps/console/posts/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

const postColumns = `
	id, author_id, author_name, title, content,
	COALESCE(topic_id, '') AS topic_id,
	report_count,
	COALESCE(NULLIF(TRIM(status), ''), 'visible') AS status,
	created_at`

// postgresPostRepository implements PostRepository using raw SQL queries
type postgresPostRepository struct {
	client *postgres.Client
}

// NewPostgresPostRepository creates a new PostgreSQL repository for posts
func NewPostgresPostRepository(client *postgres.Client) PostRepository {
	return &postgresPostRepository{client: client}
}

func (r *postgresPostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.selectPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		clamp(limit), max(offset, 0))
}

func (r *postgresPostRepository) ListReported(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.selectPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE report_count > 0
		ORDER BY report_count DESC, created_at DESC LIMIT $1 OFFSET $2`,
		clamp(limit), max(offset, 0))
}

func (r *postgresPostRepository) ListReportedByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	return r.selectPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE author_id = $1 AND report_count > 0
		ORDER BY report_count DESC, created_at DESC LIMIT $2`,
		authorID, clamp(limit))
}

func (r *postgresPostRepository) selectPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	posts := []models.Post{}
	if err := sqlx.SelectContext(ctx, r.client.DB(), &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return posts, nil
}

func (r *postgresPostRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (r *postgresPostRepository) CountReported(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE report_count > 0`)
}

func (r *postgresPostRepository) count(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.client.DB(), &count, query); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

func (r *postgresPostRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, COUNT(p.id) AS post_count
		FROM topics t
		LEFT JOIN posts p ON p.topic_id = t.id
		GROUP BY t.id, t.name, t.description, t.created_at
		ORDER BY t.name
	`
	topics := []models.Topic{}
	if err := sqlx.SelectContext(ctx, r.client.DB(), &topics, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return topics, nil
}

func (r *postgresPostRepository) Hide(ctx context.Context, postID string) error {
	return r.update(ctx, postID, `UPDATE posts SET status = 'hidden' WHERE id = $1`)
}

func (r *postgresPostRepository) DismissReports(ctx context.Context, postID string) error {
	return r.update(ctx, postID, `UPDATE posts SET report_count = 0 WHERE id = $1`)
}

func (r *postgresPostRepository) update(ctx context.Context, postID, query string) error {
	result, err := r.client.DB().ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w: %v", postID, postsErrors.ErrDatabaseOperation, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w: %v", postsErrors.ErrDatabaseOperation, err)
	}
	if rows == 0 {
		return fmt.Errorf("post %s: %w", postID, postsErrors.ErrPostNotFound)
	}
	return nil
}

func clamp(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
