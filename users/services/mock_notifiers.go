// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/qolzam/telar/apps/console/notifications"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/stretchr/testify/mock"
)

// MockEmailNotifier is a mock implementation of EmailNotifier for testing
type MockEmailNotifier struct {
	mock.Mock
}

func (m *MockEmailNotifier) SendEscalationEmail(ctx context.Context, recipientEmail, userName string, newStatus models.StatusLevel, reportedPosts []notifications.ReportedPost) notifications.Result {
	args := m.Called(ctx, recipientEmail, userName, newStatus, reportedPosts)
	return args.Get(0).(notifications.Result)
}

// MockPushNotifier is a mock implementation of PushNotifier for testing
type MockPushNotifier struct {
	mock.Mock
}

func (m *MockPushNotifier) SendStatusChangedNotification(ctx context.Context, userID, oldLabel, newLabel string) notifications.Result {
	args := m.Called(ctx, userID, oldLabel, newLabel)
	return args.Get(0).(notifications.Result)
}

// MockStatsInvalidator is a mock implementation of StatsInvalidator for testing
type MockStatsInvalidator struct {
	mock.Mock
}

func (m *MockStatsInvalidator) InvalidateCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockReportedPostsSource is a mock implementation of ReportedPostsSource for testing
type MockReportedPostsSource struct {
	mock.Mock
}

func (m *MockReportedPostsSource) ReportedPostsByAuthor(ctx context.Context, authorID string, limit int) ([]notifications.ReportedPost, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notifications.ReportedPost), args.Error(1)
}
