// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import "time"

// Post status values
const (
	StatusVisible = "visible"
	StatusHidden  = "hidden"
)

// Post is a community post as stored by the community backend
type Post struct {
	ID          string    `json:"id" db:"id"`
	AuthorID    string    `json:"authorId" db:"author_id"`
	AuthorName  string    `json:"authorName" db:"author_name"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	TopicID     string    `json:"topicId" db:"topic_id"`
	ReportCount int       `json:"reportCount" db:"report_count"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// IsReported reports whether the post has outstanding reports
func (p Post) IsReported() bool {
	return p.ReportCount > 0
}

// Topic is a discussion topic with its post count
type Topic struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PostCount   int       `json:"postCount" db:"post_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// PostFilter pages post listings
type PostFilter struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}
