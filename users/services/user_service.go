// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	"github.com/qolzam/telar/apps/console/internal/types"
	usersErrors "github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/repository"
)

// ResetResult describes an administrative status reset
type ResetResult struct {
	UserID         string             `json:"userId"`
	PreviousStatus models.StatusLevel `json:"previousStatus"`
	NewStatus      models.StatusLevel `json:"newStatus"`
	HistoryID      string             `json:"historyId"`
}

// UserService covers the read side of moderated users and the administrative reset
type UserService interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.UserView, error)
	Get(ctx context.Context, userID string) (*models.UserView, error)
	History(ctx context.Context, userID string, limit int) ([]models.StatusHistoryEntry, error)

	// Reset writes the normal status directly, outside the escalation ladder.
	// It sends no notifications.
	Reset(ctx context.Context, userID string) (*ResetResult, error)
}

type userService struct {
	repo  repository.UserRepository
	stats StatsInvalidator
}

// NewUserService creates a new UserService. stats may be nil.
func NewUserService(repo repository.UserRepository, stats StatsInvalidator) UserService {
	return &userService{repo: repo, stats: stats}
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]models.UserView, error) {
	if filter.Status != "" {
		if _, ok := models.ParseStatusLevelStrict(filter.Status); !ok {
			return nil, fmt.Errorf("%w: unknown status %q", usersErrors.ErrValidationFailed, filter.Status)
		}
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*models.UserView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, usersErrors.ErrInvalidUserID
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *userService) History(ctx context.Context, userID string, limit int) ([]models.StatusHistoryEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, usersErrors.ErrInvalidUserID
	}
	return s.repo.ListHistory(ctx, userID, limit)
}

func (s *userService) Reset(ctx context.Context, userID string) (*ResetResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, usersErrors.ErrInvalidUserID
	}
	previous, historyID, err := s.repo.ResetStatus(ctx, userID, types.ActorIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	log.InfoWithContext(ctx, "user %s reset from %s to normal", userID, previous)

	if s.stats != nil {
		if err := s.stats.InvalidateCache(context.WithoutCancel(ctx)); err != nil {
			log.WarnWithContext(ctx, "failed to invalidate dashboard stats: %v", err)
		}
	}

	return &ResetResult{
		UserID:         userID,
		PreviousStatus: models.ParseStatusLevel(previous),
		NewStatus:      models.StatusNormal,
		HistoryID:      historyID.String(),
	}, nil
}
