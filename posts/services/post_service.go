// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"strings"

	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	"github.com/qolzam/telar/apps/console/notifications"
	postsErrors "github.com/qolzam/telar/apps/console/posts/errors"
	"github.com/qolzam/telar/apps/console/posts/models"
	"github.com/qolzam/telar/apps/console/posts/repository"
)

// StatsInvalidator marks the dashboard statistics stale
type StatsInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// PostService covers post and topic moderation
type PostService interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	ListReported(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	Hide(ctx context.Context, postID string) error
	DismissReports(ctx context.Context, postID string) error

	// ReportedPostsByAuthor summarises an author's reported posts for escalation emails
	ReportedPostsByAuthor(ctx context.Context, authorID string, limit int) ([]notifications.ReportedPost, error)
}

type postService struct {
	repo  repository.PostRepository
	stats StatsInvalidator
}

// NewPostService creates a new PostService. stats may be nil.
func NewPostService(repo repository.PostRepository, stats StatsInvalidator) PostService {
	return &postService{repo: repo, stats: stats}
}

func (s *postService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	return s.repo.List(ctx, filter.Limit, filter.Offset)
}

func (s *postService) ListReported(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	return s.repo.ListReported(ctx, filter.Limit, filter.Offset)
}

func (s *postService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.repo.ListTopics(ctx)
}

func (s *postService) Hide(ctx context.Context, postID string) error {
	if strings.TrimSpace(postID) == "" {
		return postsErrors.ErrInvalidPostID
	}
	if err := s.repo.Hide(ctx, postID); err != nil {
		return err
	}
	// hidden posts still count toward the dashboard totals
	log.InfoWithContext(ctx, "post %s hidden", postID)
	return nil
}

func (s *postService) DismissReports(ctx context.Context, postID string) error {
	if strings.TrimSpace(postID) == "" {
		return postsErrors.ErrInvalidPostID
	}
	if err := s.repo.DismissReports(ctx, postID); err != nil {
		return err
	}
	log.InfoWithContext(ctx, "reports on post %s dismissed", postID)
	s.invalidate(ctx)
	return nil
}

func (s *postService) ReportedPostsByAuthor(ctx context.Context, authorID string, limit int) ([]notifications.ReportedPost, error) {
	posts, err := s.repo.ListReportedByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]notifications.ReportedPost, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, notifications.ReportedPost{
			ID:          p.ID,
			Title:       p.Title,
			Content:     p.Content,
			ReportCount: p.ReportCount,
			CreatedAt:   p.CreatedAt.UnixMilli(),
		})
	}
	return summaries, nil
}

func (s *postService) invalidate(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.InvalidateCache(context.WithoutCancel(ctx)); err != nil {
		log.WarnWithContext(ctx, "failed to invalidate dashboard stats: %v", err)
	}
}
