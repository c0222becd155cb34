// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/qolzam/telar/apps/console/internal/database/postgres"
	usersErrors "github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// statusExpr normalises NULL and blank statuses to the default level
const statusExpr = "COALESCE(NULLIF(TRIM(status), ''), 'normal')"

// normalStatusPredicate matches every row that parses to normal, unknown stored values included
const normalStatusPredicate = "LOWER(" + statusExpr + ") NOT IN ('reminded', 'warned', 'banned')"

const userColumns = `
	id, email, name, COALESCE(avatar, '') AS avatar,
	COALESCE(NULLIF(TRIM(role), ''), 'STUDENT') AS role,
	` + statusExpr + ` AS status,
	created_at, updated_at`

// postgresUserRepository implements UserRepository using raw SQL queries
type postgresUserRepository struct {
	client *postgres.Client
}

// NewPostgresUserRepository creates a new PostgreSQL repository for users
func NewPostgresUserRepository(client *postgres.Client) UserRepository {
	return &postgresUserRepository{client: client}
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := sqlx.GetContext(ctx, r.client.DB(), &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, usersErrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to find user %s: %w: %v", id, usersErrors.ErrDatabaseOperation, err)
	}
	return &user, nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args)))
	}
	if filter.Status != "" {
		level := models.ParseStatusLevel(filter.Status)
		if level == models.StatusNormal {
			where = append(where, normalStatusPredicate)
		} else {
			args = append(args, level.String())
			where = append(where, fmt.Sprintf("LOWER(%s) = $%d", statusExpr, len(args)))
		}
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.client.DB(), &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	return users, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.client.DB(), &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

func (r *postgresUserRepository) CountByStatus(ctx context.Context, level models.StatusLevel) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE LOWER(` + statusExpr + `) = $1`
	if level == models.StatusNormal {
		query = `SELECT COUNT(*) FROM users WHERE ` + normalStatusPredicate
		var count int64
		if err := sqlx.GetContext(ctx, r.client.DB(), &count, query); err != nil {
			return 0, fmt.Errorf("failed to count users by status: %w: %v", usersErrors.ErrDatabaseOperation, err)
		}
		return count, nil
	}

	var count int64
	if err := sqlx.GetContext(ctx, r.client.DB(), &count, query, level.String()); err != nil {
		return 0, fmt.Errorf("failed to count users by status: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

func (r *postgresUserRepository) CompareAndSetStatus(ctx context.Context, id, expected string, next models.StatusLevel, changedBy string) (uuid.UUID, error) {
	historyID := uuid.Must(uuid.NewV4())

	err := r.client.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET status = $1, updated_at = $2 WHERE id = $3 AND `+statusExpr+` = $4`,
			next.String(), time.Now().UTC(), id, expected)
		if err != nil {
			return fmt.Errorf("failed to update status: %w: %v", usersErrors.ErrDatabaseOperation, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w: %v", usersErrors.ErrDatabaseOperation, err)
		}
		if rows == 0 {
			return r.missReason(ctx, tx, id)
		}
		return insertHistory(ctx, tx, historyID, id, expected, next.String(), changedBy)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return historyID, nil
}

// missReason tells a vanished user apart from a concurrent status change
func (r *postgresUserRepository) missReason(ctx context.Context, tx *sqlx.Tx, id string) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("failed to check user: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	if !exists {
		return fmt.Errorf("user %s: %w", id, usersErrors.ErrUserNotFound)
	}
	return fmt.Errorf("user %s: %w", id, usersErrors.ErrStatusConflict)
}

func (r *postgresUserRepository) ResetStatus(ctx context.Context, id, changedBy string) (string, uuid.UUID, error) {
	historyID := uuid.Must(uuid.NewV4())
	var previous string

	err := r.client.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &previous, `SELECT `+statusExpr+` FROM users WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("user %s: %w", id, usersErrors.ErrUserNotFound)
			}
			return fmt.Errorf("failed to lock user: %w: %v", usersErrors.ErrDatabaseOperation, err)
		}
		normal := models.StatusNormal.String()
		if _, err := tx.ExecContext(ctx, `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`, normal, time.Now().UTC(), id); err != nil {
			return fmt.Errorf("failed to reset status: %w: %v", usersErrors.ErrDatabaseOperation, err)
		}
		return insertHistory(ctx, tx, historyID, id, previous, normal, changedBy)
	})
	if err != nil {
		return "", uuid.Nil, err
	}
	return previous, historyID, nil
}

func (r *postgresUserRepository) ListHistory(ctx context.Context, id string, limit int) ([]models.StatusHistoryEntry, error) {
	query := `
		SELECT id, user_id, previous_status, new_status, changed_by, created_at
		FROM user_status_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	entries := []models.StatusHistoryEntry{}
	if err := sqlx.SelectContext(ctx, r.client.DB(), &entries, query, id, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list status history: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	for i := range entries {
		entries[i].PreviousStatus = models.ParseStatusLevel(entries[i].PreviousRaw)
		entries[i].NewStatus = models.ParseStatusLevel(entries[i].NewRaw)
	}
	return entries, nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, historyID uuid.UUID, userID, previous, next, changedBy string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_status_history (id, user_id, previous_status, new_status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		historyID, userID, previous, next, changedBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record status history: %w: %v", usersErrors.ErrDatabaseOperation, err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
