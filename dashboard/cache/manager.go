// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	kv "github.com/qolzam/telar/apps/console/internal/cache"
	"github.com/qolzam/telar/apps/console/internal/pkg/log"
)

// Keys owned by the manager inside its store namespace
const (
	keyTotalUsers       = "total_users"
	keyBlacklistedUsers = "blacklisted_users"
	keyTotalPosts       = "total_posts"
	keyReportedPosts    = "reported_posts"
	keyLastUpdateTime   = "last_update_time"
	keyCachedPosts      = "cached_posts"
	keyCachedTopics     = "cached_topics"
)

// DefaultTTL is how long a stats write stays fresh
const DefaultTTL = 5 * time.Minute

// absentSentinel marks a total-users counter that was never written
const absentSentinel int64 = -1

// ErrNegativeCounter is returned when saving stats with a negative counter
var ErrNegativeCounter = errors.New("dashboard counters must be non-negative")

// Manager owns the dashboard cache namespace
type Manager struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager over store. The store must not be shared with other components.
func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{store: store, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the freshness window
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// IsCacheValid reports whether the last stats write is younger than the TTL.
// A zero or missing timestamp is never valid.
func (m *Manager) IsCacheValid(ctx context.Context) bool {
	ts := m.readInt(ctx, keyLastUpdateTime, 0)
	if ts <= 0 {
		return false
	}
	return m.now().Sub(time.UnixMilli(ts)) < m.ttl
}

// SaveStats writes the counters and stamps the write time in one batch
func (m *Manager) SaveStats(ctx context.Context, stats DashboardStats) error {
	if stats.TotalUsers < 0 || stats.BlacklistedUsers < 0 || stats.TotalPosts < 0 || stats.ReportedPosts < 0 {
		return ErrNegativeCounter
	}
	entries := map[string][]byte{
		keyTotalUsers:       formatInt(stats.TotalUsers),
		keyBlacklistedUsers: formatInt(stats.BlacklistedUsers),
		keyTotalPosts:       formatInt(stats.TotalPosts),
		keyReportedPosts:    formatInt(stats.ReportedPosts),
		keyLastUpdateTime:   formatInt(m.now().UnixMilli()),
	}
	if err := m.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("save dashboard stats: %w", err)
	}
	return nil
}

// GetStats returns the cached counters regardless of freshness.
// ok is false only when stats were never written.
func (m *Manager) GetStats(ctx context.Context) (DashboardStats, bool) {
	total := m.readInt(ctx, keyTotalUsers, absentSentinel)
	if total == absentSentinel {
		return DashboardStats{}, false
	}
	return DashboardStats{
		TotalUsers:       total,
		BlacklistedUsers: m.readInt(ctx, keyBlacklistedUsers, 0),
		TotalPosts:       m.readInt(ctx, keyTotalPosts, 0),
		ReportedPosts:    m.readInt(ctx, keyReportedPosts, 0),
		CachedAt:         m.readInt(ctx, keyLastUpdateTime, 0),
	}, true
}

// SavePosts stores the post list. It does not extend validity.
func (m *Manager) SavePosts(ctx context.Context, posts []CachedPost) error {
	return m.saveJSON(ctx, keyCachedPosts, posts)
}

// GetPosts returns the cached post list; ok is false when missing or undecodable
func (m *Manager) GetPosts(ctx context.Context) ([]CachedPost, bool) {
	var posts []CachedPost
	if !m.loadJSON(ctx, keyCachedPosts, &posts) {
		return nil, false
	}
	return posts, true
}

// SaveTopics stores the topic list. It does not extend validity.
func (m *Manager) SaveTopics(ctx context.Context, topics []CachedTopic) error {
	return m.saveJSON(ctx, keyCachedTopics, topics)
}

// GetTopics returns the cached topic list; ok is false when missing or undecodable
func (m *Manager) GetTopics(ctx context.Context) ([]CachedTopic, bool) {
	var topics []CachedTopic
	if !m.loadJSON(ctx, keyCachedTopics, &topics) {
		return nil, false
	}
	return topics, true
}

// InvalidateCache zeroes the write timestamp and keeps every payload
func (m *Manager) InvalidateCache(ctx context.Context) error {
	if err := m.store.SetMany(ctx, map[string][]byte{keyLastUpdateTime: formatInt(0)}); err != nil {
		return fmt.Errorf("invalidate dashboard cache: %w", err)
	}
	log.DebugWithContext(ctx, "dashboard cache invalidated")
	return nil
}

// ClearCache removes every key in the namespace
func (m *Manager) ClearCache(ctx context.Context) error {
	if err := m.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear dashboard cache: %w", err)
	}
	log.InfoWithContext(ctx, "dashboard cache cleared")
	return nil
}

// Close releases the backing store
func (m *Manager) Close() error {
	return m.store.Close()
}

func (m *Manager) saveJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.store.SetMany(ctx, map[string][]byte{key: data}); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (m *Manager) loadJSON(ctx context.Context, key string, out interface{}) bool {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			log.WarnWithContext(ctx, "dashboard cache read %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.WarnWithContext(ctx, "dashboard cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (m *Manager) readInt(ctx context.Context, key string, fallback int64) int64 {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			log.WarnWithContext(ctx, "dashboard cache read %s: %v", key, err)
		}
		return fallback
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func formatInt(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}
