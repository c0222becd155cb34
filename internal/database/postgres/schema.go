// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postgres

import (
	"context"
	"fmt"
)

// Schema is the subset of the community database the console reads and writes.
// The community backend owns these tables; EnsureSchema exists for local runs and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	email       TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL DEFAULT '',
	avatar      TEXT,
	role        TEXT,
	status      TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_status_history (
	id              UUID PRIMARY KEY,
	user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	previous_status TEXT NOT NULL,
	new_status      TEXT NOT NULL,
	changed_by      TEXT NOT NULL DEFAULT 'system',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_user_status_history_user ON user_status_history(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS topics (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
	id           TEXT PRIMARY KEY,
	author_id    TEXT NOT NULL,
	author_name  TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	topic_id     TEXT,
	report_count INTEGER NOT NULL DEFAULT 0,
	status       TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_reported ON posts(report_count) WHERE report_count > 0;
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
`

// EnsureSchema creates the console tables when they do not exist
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
