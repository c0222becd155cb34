// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	postModels "github.com/qolzam/telar/apps/console/posts/models"
	userModels "github.com/qolzam/telar/apps/console/users/models"
	"github.com/stretchr/testify/mock"
)

// MockUserCounter is a mock implementation of UserCounter for testing
type MockUserCounter struct {
	mock.Mock
}

func (m *MockUserCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserCounter) CountByStatus(ctx context.Context, level userModels.StatusLevel) (int64, error) {
	args := m.Called(ctx, level)
	return args.Get(0).(int64), args.Error(1)
}

// MockPostSource is a mock implementation of PostSource for testing
type MockPostSource struct {
	mock.Mock
}

func (m *MockPostSource) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostSource) CountReported(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostSource) List(ctx context.Context, limit, offset int) ([]postModels.Post, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]postModels.Post), args.Error(1)
}

func (m *MockPostSource) ListTopics(ctx context.Context) ([]postModels.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]postModels.Topic), args.Error(1)
}
