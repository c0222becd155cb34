// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qolzam/telar/apps/console/internal/metrics"
	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	"github.com/qolzam/telar/apps/console/internal/types"
	"github.com/qolzam/telar/apps/console/notifications"
	usersErrors "github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/repository"
)

const (
	defaultNotificationTimeout = 15 * time.Second
	defaultReportedPostsLimit  = 5
)

// EmailNotifier sends the escalation email
type EmailNotifier interface {
	SendEscalationEmail(ctx context.Context, recipientEmail, userName string, newStatus models.StatusLevel, reportedPosts []notifications.ReportedPost) notifications.Result
}

// PushNotifier sends the status change push notification
type PushNotifier interface {
	SendStatusChangedNotification(ctx context.Context, userID, oldLabel, newLabel string) notifications.Result
}

// ReportedPostsSource supplies the reported posts quoted in escalation emails
type ReportedPostsSource interface {
	ReportedPostsByAuthor(ctx context.Context, authorID string, limit int) ([]notifications.ReportedPost, error)
}

// StatsInvalidator marks the dashboard statistics stale
type StatsInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// EscalationService moves users one step up the status ladder
type EscalationService interface {
	// Escalate never returns an error; failures are reported in the result
	Escalate(ctx context.Context, userID string) models.StatusEscalationResult

	// IsBanned reports false when the user cannot be read
	IsBanned(ctx context.Context, userID string) bool
}

// EscalationOption customises an escalation service
type EscalationOption func(*escalationService)

// WithReportedPosts attaches reported posts to escalation emails
func WithReportedPosts(source ReportedPostsSource, limit int) EscalationOption {
	return func(s *escalationService) {
		s.reported = source
		if limit > 0 {
			s.reportedLimit = limit
		}
	}
}

// WithStatsInvalidator marks dashboard statistics stale after a ban
func WithStatsInvalidator(inv StatsInvalidator) EscalationOption {
	return func(s *escalationService) {
		s.stats = inv
	}
}

// WithNotificationTimeout bounds the time spent on both notifications together
func WithNotificationTimeout(d time.Duration) EscalationOption {
	return func(s *escalationService) {
		if d > 0 {
			s.notificationTimeout = d
		}
	}
}

type escalationService struct {
	repo                repository.UserRepository
	email               EmailNotifier
	push                PushNotifier
	reported            ReportedPostsSource
	stats               StatsInvalidator
	locks               *keyMutex
	notificationTimeout time.Duration
	reportedLimit       int
}

// NewEscalationService creates a new EscalationService
func NewEscalationService(repo repository.UserRepository, email EmailNotifier, push PushNotifier, opts ...EscalationOption) EscalationService {
	s := &escalationService{
		repo:                repo,
		email:               email,
		push:                push,
		locks:               newKeyMutex(),
		notificationTimeout: defaultNotificationTimeout,
		reportedLimit:       defaultReportedPostsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *escalationService) Escalate(ctx context.Context, userID string) (result models.StatusEscalationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorWithContext(ctx, "escalation of %s panicked: %v", userID, r)
			metrics.EscalationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			result = models.FailedResult(userID, fmt.Errorf("%w: %v", usersErrors.ErrEscalationAborted, r))
		}
	}()

	if strings.TrimSpace(userID) == "" {
		metrics.EscalationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return models.FailedResult(userID, usersErrors.ErrInvalidUserID)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		log.WarnWithContext(ctx, "escalation lookup for %s failed: %v", userID, err)
		metrics.EscalationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return models.FailedResult(userID, lookupError(userID, err))
	}

	current := user.StatusLevel()
	next := current.Next()
	if next == current {
		log.InfoWithContext(ctx, "user %s is already %s, nothing to escalate", userID, current)
		metrics.EscalationsTotal.WithLabelValues(metrics.OutcomeCeiling).Inc()
		return models.CeilingResult(userID, current)
	}

	historyID, err := s.repo.CompareAndSetStatus(ctx, userID, user.Status, next, types.ActorIDFromContext(ctx))
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, usersErrors.ErrStatusConflict) {
			outcome = metrics.OutcomeConflict
		}
		log.ErrorWithContext(ctx, "failed to persist status %s for %s: %v", next, userID, err)
		metrics.EscalationsTotal.WithLabelValues(outcome).Inc()
		return models.TransitionFailedResult(userID, current, err)
	}

	log.InfoWithContext(ctx, "user %s escalated from %s to %s", userID, current, next)
	metrics.EscalationsTotal.WithLabelValues(metrics.OutcomeEscalated).Inc()

	// The write is committed; nothing below may change the outcome.
	detached := context.WithoutCancel(ctx)
	s.notify(detached, user, current, next)
	if next == models.StatusBanned {
		s.invalidateStats(detached)
	}

	return models.EscalatedResult(userID, current, next, historyID.String())
}

func (s *escalationService) IsBanned(ctx context.Context, userID string) bool {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		log.DebugWithContext(ctx, "ban check for %s treated as not banned: %v", userID, err)
		return false
	}
	return user.StatusLevel() == models.StatusBanned
}

// notify sends the email and then the push notification, each in its own failure boundary
func (s *escalationService) notify(ctx context.Context, user *models.User, previous, next models.StatusLevel) {
	ctx, cancel := context.WithTimeout(ctx, s.notificationTimeout)
	defer cancel()

	if s.email != nil {
		s.dispatch(ctx, metrics.ChannelEmail, user.ID, func() notifications.Result {
			return s.email.SendEscalationEmail(ctx, user.Email, user.Name, next, s.reportedPosts(ctx, user.ID))
		})
	}
	if s.push != nil {
		s.dispatch(ctx, metrics.ChannelPush, user.ID, func() notifications.Result {
			return s.push.SendStatusChangedNotification(ctx, user.ID, previous.Label(), next.Label())
		})
	}
}

func (s *escalationService) dispatch(ctx context.Context, channel, userID string, send func() notifications.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorWithContext(ctx, "%s notification for %s panicked: %v", channel, userID, r)
			metrics.NotificationsTotal.WithLabelValues(channel, metrics.OutcomeError).Inc()
		}
	}()

	res := send()
	if !res.Success {
		log.WarnWithContext(ctx, "%s notification for %s failed: %s", channel, userID, res.Message)
		metrics.NotificationsTotal.WithLabelValues(channel, metrics.OutcomeError).Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues(channel, metrics.OutcomeSent).Inc()
}

// reportedPosts is best effort; the email goes out without posts when the lookup fails
func (s *escalationService) reportedPosts(ctx context.Context, userID string) []notifications.ReportedPost {
	if s.reported == nil {
		return nil
	}
	posts, err := s.reported.ReportedPostsByAuthor(ctx, userID, s.reportedLimit)
	if err != nil {
		log.WarnWithContext(ctx, "could not load reported posts for %s: %v", userID, err)
		return nil
	}
	return posts
}

func (s *escalationService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.ErrorWithContext(ctx, "stats invalidation panicked: %v", r)
		}
	}()
	if err := s.stats.InvalidateCache(ctx); err != nil {
		log.WarnWithContext(ctx, "failed to invalidate dashboard stats: %v", err)
	}
}

func lookupError(userID string, err error) error {
	if errors.Is(err, usersErrors.ErrUserNotFound) {
		return fmt.Errorf("user %s not found: %w", userID, err)
	}
	return fmt.Errorf("failed to look up user %s: %w", userID, err)
}
