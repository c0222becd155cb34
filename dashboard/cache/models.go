// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"time"

	postModels "github.com/qolzam/telar/apps/console/posts/models"
)

// DashboardStats is a snapshot of the moderation counters.
// CachedAt is the epoch millis of the write that produced it, zero when never stamped.
type DashboardStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	BlacklistedUsers int64 `json:"blacklistedUsers"`
	TotalPosts       int64 `json:"totalPosts"`
	ReportedPosts    int64 `json:"reportedPosts"`
	CachedAt         int64 `json:"cachedAt"`
}

// CachedPost is the cached projection of a post
type CachedPost struct {
	ID          string `json:"id"`
	AuthorID    string `json:"authorId"`
	AuthorName  string `json:"authorName"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	TopicID     string `json:"topicId"`
	ReportCount int    `json:"reportCount"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
}

// CachedTopic is the cached projection of a topic
type CachedTopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PostCount   int    `json:"postCount"`
	CreatedAt   int64  `json:"createdAt"`
}

// ProjectPosts converts remote posts into their cached form
func ProjectPosts(posts []postModels.Post) []CachedPost {
	out := make([]CachedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, CachedPost{
			ID:          p.ID,
			AuthorID:    p.AuthorID,
			AuthorName:  p.AuthorName,
			Title:       p.Title,
			Content:     p.Content,
			TopicID:     p.TopicID,
			ReportCount: p.ReportCount,
			Status:      p.Status,
			CreatedAt:   epochMillis(p.CreatedAt),
		})
	}
	return out
}

// ProjectTopics converts remote topics into their cached form
func ProjectTopics(topics []postModels.Topic) []CachedTopic {
	out := make([]CachedTopic, 0, len(topics))
	for _, t := range topics {
		out = append(out, CachedTopic{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			PostCount:   t.PostCount,
			CreatedAt:   epochMillis(t.CreatedAt),
		})
	}
	return out
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
