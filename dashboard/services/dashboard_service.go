// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"

	"github.com/qolzam/telar/apps/console/dashboard/cache"
	dashErrors "github.com/qolzam/telar/apps/console/dashboard/errors"
	"github.com/qolzam/telar/apps/console/internal/metrics"
	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	postModels "github.com/qolzam/telar/apps/console/posts/models"
	userModels "github.com/qolzam/telar/apps/console/users/models"
	"golang.org/x/sync/errgroup"
)

// Source tells where a dashboard payload came from
type Source string

const (
	SourceCache      Source = "cache"
	SourceRemote     Source = "remote"
	SourceStaleCache Source = "stale-cache"
)

const defaultRecentPostsLimit = 20

// UserCounter is the user side of the remote store
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, level userModels.StatusLevel) (int64, error)
}

// PostSource is the post side of the remote store
type PostSource interface {
	Count(ctx context.Context) (int64, error)
	CountReported(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]postModels.Post, error)
	ListTopics(ctx context.Context) ([]postModels.Topic, error)
}

// StatsResult is the dashboard counters response
type StatsResult struct {
	Stats  cache.DashboardStats `json:"stats"`
	Source Source               `json:"source"`
	Stale  bool                 `json:"stale"`
}

// PostsResult is the recent posts response
type PostsResult struct {
	Posts  []cache.CachedPost `json:"posts"`
	Source Source             `json:"source"`
	Stale  bool               `json:"stale"`
}

// TopicsResult is the topics response
type TopicsResult struct {
	Topics []cache.CachedTopic `json:"topics"`
	Source Source              `json:"source"`
	Stale  bool                `json:"stale"`
}

// DashboardService serves dashboard data from the cache, falling back to the remote store
type DashboardService interface {
	GetStats(ctx context.Context, forceRefresh bool) (*StatsResult, error)
	GetRecentPosts(ctx context.Context, forceRefresh bool) (*PostsResult, error)
	GetTopics(ctx context.Context, forceRefresh bool) (*TopicsResult, error)
	Invalidate(ctx context.Context) error
	Clear(ctx context.Context) error
}

type dashboardService struct {
	cache       *cache.Manager
	users       UserCounter
	posts       PostSource
	recentLimit int
}

// Option configures the dashboard service
type Option func(*dashboardService)

// WithRecentPostsLimit sets how many posts the recent list holds
func WithRecentPostsLimit(limit int) Option {
	return func(s *dashboardService) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(manager *cache.Manager, users UserCounter, posts PostSource, opts ...Option) DashboardService {
	s := &dashboardService{
		cache:       manager,
		users:       users,
		posts:       posts,
		recentLimit: defaultRecentPostsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *dashboardService) GetStats(ctx context.Context, forceRefresh bool) (*StatsResult, error) {
	if !forceRefresh && s.cache.IsCacheValid(ctx) {
		if stats, ok := s.cache.GetStats(ctx); ok {
			metrics.StatsCacheHitsTotal.Inc()
			return &StatsResult{Stats: stats, Source: SourceCache}, nil
		}
	}
	metrics.StatsCacheMissesTotal.Inc()

	stats, err := s.fetchStats(ctx)
	if err != nil {
		log.WarnWithContext(ctx, "dashboard stats fetch failed: %v", err)
		if cached, ok := s.cache.GetStats(ctx); ok {
			metrics.StatsCacheStaleTotal.Inc()
			return &StatsResult{Stats: cached, Source: SourceStaleCache, Stale: true}, nil
		}
		return nil, fmt.Errorf("%w: %v", dashErrors.ErrRemoteUnavailable, err)
	}

	if err := s.cache.SaveStats(ctx, stats); err != nil {
		log.WarnWithContext(ctx, "dashboard stats not cached: %v", err)
	} else if saved, ok := s.cache.GetStats(ctx); ok {
		stats = saved
	}
	return &StatsResult{Stats: stats, Source: SourceRemote}, nil
}

func (s *dashboardService) fetchStats(ctx context.Context) (cache.DashboardStats, error) {
	var stats cache.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByStatus(gctx, userModels.StatusBanned)
		stats.BlacklistedUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.posts.Count(gctx)
		stats.TotalPosts = n
		return err
	})
	g.Go(func() error {
		n, err := s.posts.CountReported(gctx)
		stats.ReportedPosts = n
		return err
	})

	if err := g.Wait(); err != nil {
		return cache.DashboardStats{}, err
	}
	return stats, nil
}

func (s *dashboardService) GetRecentPosts(ctx context.Context, forceRefresh bool) (*PostsResult, error) {
	if !forceRefresh && s.cache.IsCacheValid(ctx) {
		if posts, ok := s.cache.GetPosts(ctx); ok {
			return &PostsResult{Posts: posts, Source: SourceCache}, nil
		}
	}

	remote, err := s.posts.List(ctx, s.recentLimit, 0)
	if err != nil {
		log.WarnWithContext(ctx, "recent posts fetch failed: %v", err)
		if cached, ok := s.cache.GetPosts(ctx); ok {
			return &PostsResult{Posts: cached, Source: SourceStaleCache, Stale: true}, nil
		}
		return nil, fmt.Errorf("%w: %v", dashErrors.ErrRemoteUnavailable, err)
	}

	posts := cache.ProjectPosts(remote)
	if err := s.cache.SavePosts(ctx, posts); err != nil {
		log.WarnWithContext(ctx, "recent posts not cached: %v", err)
	}
	return &PostsResult{Posts: posts, Source: SourceRemote}, nil
}

func (s *dashboardService) GetTopics(ctx context.Context, forceRefresh bool) (*TopicsResult, error) {
	if !forceRefresh && s.cache.IsCacheValid(ctx) {
		if topics, ok := s.cache.GetTopics(ctx); ok {
			return &TopicsResult{Topics: topics, Source: SourceCache}, nil
		}
	}

	remote, err := s.posts.ListTopics(ctx)
	if err != nil {
		log.WarnWithContext(ctx, "topics fetch failed: %v", err)
		if cached, ok := s.cache.GetTopics(ctx); ok {
			return &TopicsResult{Topics: cached, Source: SourceStaleCache, Stale: true}, nil
		}
		return nil, fmt.Errorf("%w: %v", dashErrors.ErrRemoteUnavailable, err)
	}

	topics := cache.ProjectTopics(remote)
	if err := s.cache.SaveTopics(ctx, topics); err != nil {
		log.WarnWithContext(ctx, "topics not cached: %v", err)
	}
	return &TopicsResult{Topics: topics, Source: SourceRemote}, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) error {
	if err := s.cache.InvalidateCache(ctx); err != nil {
		return fmt.Errorf("%w: %v", dashErrors.ErrCacheOperation, err)
	}
	return nil
}

func (s *dashboardService) Clear(ctx context.Context) error {
	if err := s.cache.ClearCache(ctx); err != nil {
		return fmt.Errorf("%w: %v", dashErrors.ErrCacheOperation, err)
	}
	return nil
}
