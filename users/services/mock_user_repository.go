// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/repository"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

// Ensure MockUserRepository implements UserRepository
var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByStatus(ctx context.Context, level models.StatusLevel) (int64, error) {
	args := m.Called(ctx, level)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CompareAndSetStatus(ctx context.Context, id, expected string, next models.StatusLevel, changedBy string) (uuid.UUID, error) {
	args := m.Called(ctx, id, expected, next, changedBy)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) ResetStatus(ctx context.Context, id, changedBy string) (string, uuid.UUID, error) {
	args := m.Called(ctx, id, changedBy)
	return args.String(0), args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *MockUserRepository) ListHistory(ctx context.Context, id string, limit int) ([]models.StatusHistoryEntry, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusHistoryEntry), args.Error(1)
}
