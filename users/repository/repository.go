// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/qolzam/telar/apps/console/users/models"
)

// UserRepository defines the data access contract for moderated users
type UserRepository interface {
	// FindByID returns the user or an error wrapping ErrUserNotFound
	FindByID(ctx context.Context, id string) (*models.User, error)

	// List returns users matching the filter, newest first
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns the number of users whose stored status parses to level
	CountByStatus(ctx context.Context, level models.StatusLevel) (int64, error)

	// CompareAndSetStatus writes next only if the stored status still equals expected,
	// recording a history row in the same transaction. A mismatch returns ErrStatusConflict.
	CompareAndSetStatus(ctx context.Context, id, expected string, next models.StatusLevel, changedBy string) (uuid.UUID, error)

	// ResetStatus sets the status to normal unconditionally and returns the previous raw value
	ResetStatus(ctx context.Context, id, changedBy string) (string, uuid.UUID, error)

	// ListHistory returns the user's status changes, newest first
	ListHistory(ctx context.Context, id string, limit int) ([]models.StatusHistoryEntry, error)
}
