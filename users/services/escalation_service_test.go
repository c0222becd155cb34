// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/qolzam/telar/apps/console/internal/types"
	"github.com/qolzam/telar/apps/console/notifications"
	usersErrors "github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryUserRepository keeps users in a map and implements the status write as a real compare-and-swap
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
	delay time.Duration
}

var _ repository.UserRepository = (*memoryUserRepository)(nil)

func newMemoryUserRepository(users ...models.User) *memoryUserRepository {
	r := &memoryUserRepository{users: make(map[string]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, usersErrors.ErrUserNotFound)
	}
	return &u, nil
}

func (r *memoryUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return nil, nil
}

func (r *memoryUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memoryUserRepository) CountByStatus(ctx context.Context, level models.StatusLevel) (int64, error) {
	return 0, nil
}

func (r *memoryUserRepository) CompareAndSetStatus(ctx context.Context, id, expected string, next models.StatusLevel, changedBy string) (uuid.UUID, error) {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return uuid.Nil, usersErrors.ErrUserNotFound
	}
	if u.Status != expected {
		return uuid.Nil, usersErrors.ErrStatusConflict
	}
	u.Status = next.String()
	r.users[id] = u
	return uuid.Must(uuid.NewV4()), nil
}

func (r *memoryUserRepository) ResetStatus(ctx context.Context, id, changedBy string) (string, uuid.UUID, error) {
	return "", uuid.Nil, nil
}

func (r *memoryUserRepository) ListHistory(ctx context.Context, id string, limit int) ([]models.StatusHistoryEntry, error) {
	return nil, nil
}

func (r *memoryUserRepository) status(id string) models.StatusLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].StatusLevel()
}

func okNotifiers() (*MockEmailNotifier, *MockPushNotifier) {
	email := new(MockEmailNotifier)
	email.On("SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notifications.Result{Success: true})
	push := new(MockPushNotifier)
	push.On("SendStatusChangedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notifications.Result{Success: true})
	return email, push
}

func TestEscalationService_Escalate(t *testing.T) {
	ctx := context.Background()

	t.Run("Three escalations climb the ladder and the fourth is a no-op", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u1", Email: "u1@x.com", Name: "User One", Status: "normal"})
		email, push := okNotifiers()
		svc := NewEscalationService(repo, email, push)

		expected := []models.StatusLevel{models.StatusReminded, models.StatusWarned, models.StatusBanned}
		previous := models.StatusNormal
		for _, want := range expected {
			res := svc.Escalate(ctx, "u1")
			require.True(t, res.Success, res.Error)
			assert.True(t, res.WasEscalated)
			assert.Equal(t, previous, res.PreviousStatus)
			assert.Equal(t, want, res.NewStatus)
			assert.NotEmpty(t, res.HistoryID)
			previous = want
		}

		res := svc.Escalate(ctx, "u1")
		assert.Equal(t, models.CeilingResult("u1", models.StatusBanned), res)
		assert.Equal(t, models.StatusBanned, repo.status("u1"))

		email.AssertNumberOfCalls(t, "SendEscalationEmail", 3)
		push.AssertNumberOfCalls(t, "SendStatusChangedNotification", 3)
		email.AssertCalled(t, "SendEscalationEmail", mock.Anything, "u1@x.com", "User One", models.StatusBanned, mock.Anything)
		push.AssertCalled(t, "SendStatusChangedNotification", mock.Anything, "u1", "Warned", "Banned")
	})

	t.Run("A banned user stays banned without side effects", func(t *testing.T) {
		repo := new(MockUserRepository)
		email := new(MockEmailNotifier)
		push := new(MockPushNotifier)
		repo.On("FindByID", mock.Anything, "u2").Return(&models.User{ID: "u2", Status: "banned"}, nil)

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u2")

		assert.True(t, res.Success)
		assert.False(t, res.WasEscalated)
		assert.Equal(t, models.StatusBanned, res.PreviousStatus)
		assert.Equal(t, models.StatusBanned, res.NewStatus)
		repo.AssertNotCalled(t, "CompareAndSetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		email.AssertNotCalled(t, "SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		push.AssertNotCalled(t, "SendStatusChangedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Email failure does not fail the escalation", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u3", Email: "u3@x.com", Status: "warned"})
		email := new(MockEmailNotifier)
		email.On("SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(notifications.Result{Message: "backend down"})
		_, push := okNotifiers()

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u3")

		assert.True(t, res.Success)
		assert.True(t, res.WasEscalated)
		assert.Equal(t, models.StatusBanned, res.NewStatus)
		push.AssertNumberOfCalls(t, "SendStatusChangedNotification", 1)
	})

	t.Run("A panicking email sender does not block the push", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u4", Email: "u4@x.com", Status: "normal"})
		email := new(MockEmailNotifier)
		email.On("SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Panic("smtp exploded")
		_, push := okNotifiers()

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u4")

		assert.True(t, res.Success)
		assert.Equal(t, models.StatusReminded, res.NewStatus)
		push.AssertCalled(t, "SendStatusChangedNotification", mock.Anything, "u4", "Normal", "Reminded")
	})

	t.Run("A failing push does not fail the escalation", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u5", Email: "u5@x.com", Status: "normal"})
		email, _ := okNotifiers()
		push := new(MockPushNotifier)
		push.On("SendStatusChangedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Panic("push exploded")

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u5")
		assert.True(t, res.Success)
		email.AssertNumberOfCalls(t, "SendEscalationEmail", 1)
	})

	t.Run("Persistence failure skips notifications", func(t *testing.T) {
		repo := new(MockUserRepository)
		email := new(MockEmailNotifier)
		push := new(MockPushNotifier)
		repo.On("FindByID", mock.Anything, "u6").Return(&models.User{ID: "u6", Email: "u6@x.com", Status: "reminded"}, nil)
		repo.On("CompareAndSetStatus", mock.Anything, "u6", "reminded", models.StatusWarned, "system").
			Return(uuid.Nil, fmt.Errorf("write: %w", usersErrors.ErrDatabaseOperation))

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u6")

		assert.False(t, res.Success)
		assert.False(t, res.WasEscalated)
		assert.Equal(t, models.StatusReminded, res.PreviousStatus)
		assert.Equal(t, models.StatusReminded, res.NewStatus)
		assert.Contains(t, res.Error, "database operation failed")
		assert.ErrorIs(t, res.Err(), usersErrors.ErrDatabaseOperation)
		email.AssertNotCalled(t, "SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		push.AssertNotCalled(t, "SendStatusChangedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent change is reported as a conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		email := new(MockEmailNotifier)
		push := new(MockPushNotifier)
		repo.On("FindByID", mock.Anything, "u7").Return(&models.User{ID: "u7", Status: "normal"}, nil)
		repo.On("CompareAndSetStatus", mock.Anything, "u7", "normal", models.StatusReminded, mock.Anything).
			Return(uuid.Nil, usersErrors.ErrStatusConflict)

		res := NewEscalationService(repo, email, push).Escalate(ctx, "u7")
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err(), usersErrors.ErrStatusConflict)
		email.AssertNotCalled(t, "SendEscalationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown user returns the Normal sentinel", func(t *testing.T) {
		repo := newMemoryUserRepository()
		res := NewEscalationService(repo, nil, nil).Escalate(ctx, "ghost")

		assert.False(t, res.Success)
		assert.Equal(t, "ghost", res.UserID)
		assert.Equal(t, models.StatusNormal, res.PreviousStatus)
		assert.Equal(t, models.StatusNormal, res.NewStatus)
		assert.Contains(t, res.Error, "not found")
		assert.ErrorIs(t, res.Err(), usersErrors.ErrUserNotFound)
	})

	t.Run("Lookup failure returns the Normal sentinel", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, "u8").Return(nil, errors.New("connection refused"))

		res := NewEscalationService(repo, nil, nil).Escalate(ctx, "u8")
		assert.False(t, res.Success)
		assert.Equal(t, models.StatusNormal, res.NewStatus)
		assert.Contains(t, res.Error, "connection refused")
	})

	t.Run("Blank user id is rejected", func(t *testing.T) {
		res := NewEscalationService(new(MockUserRepository), nil, nil).Escalate(ctx, "  ")
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err(), usersErrors.ErrInvalidUserID)
	})

	t.Run("A panicking repository is converted to a failed result", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, "u9").Panic("driver bug")

		res := NewEscalationService(repo, nil, nil).Escalate(ctx, "u9")
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err(), usersErrors.ErrEscalationAborted)
	})

	t.Run("Unrecognised stored status escalates from Normal", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, "u10").Return(&models.User{ID: "u10", Email: "u10@x.com", Status: "suspended"}, nil)
		repo.On("CompareAndSetStatus", mock.Anything, "u10", "suspended", models.StatusReminded, "admin-7").
			Return(uuid.Must(uuid.NewV4()), nil)
		email, push := okNotifiers()

		res := NewEscalationService(repo, email, push).Escalate(types.WithActorID(ctx, "admin-7"), "u10")
		assert.True(t, res.Success)
		assert.Equal(t, models.StatusNormal, res.PreviousStatus)
		assert.Equal(t, models.StatusReminded, res.NewStatus)
		repo.AssertExpectations(t)
	})

	t.Run("Notifications outlive a cancelled caller", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u11", Email: "u11@x.com", Status: "normal"})
		email := new(MockEmailNotifier)
		email.On("SendEscalationEmail", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }),
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(notifications.Result{Success: true})
		push := new(MockPushNotifier)
		push.On("SendStatusChangedNotification", mock.MatchedBy(func(c context.Context) bool {
			_, hasDeadline := c.Deadline()
			return c.Err() == nil && hasDeadline
		}), mock.Anything, mock.Anything, mock.Anything).Return(notifications.Result{Success: true})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res := NewEscalationService(repo, email, push, WithNotificationTimeout(time.Second)).Escalate(cancelled, "u11")
		assert.True(t, res.Success)
		email.AssertExpectations(t)
		push.AssertExpectations(t)
	})
}

func TestEscalationService_SideEffects(t *testing.T) {
	ctx := context.Background()

	t.Run("Reported posts are attached to the email", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u1", Email: "u1@x.com", Name: "One", Status: "normal"})
		posts := []notifications.ReportedPost{{ID: "p1", Title: "Spam", ReportCount: 2}}
		source := new(MockReportedPostsSource)
		source.On("ReportedPostsByAuthor", mock.Anything, "u1", 3).Return(posts, nil)
		email, push := okNotifiers()

		NewEscalationService(repo, email, push, WithReportedPosts(source, 3)).Escalate(ctx, "u1")
		email.AssertCalled(t, "SendEscalationEmail", mock.Anything, "u1@x.com", "One", models.StatusReminded, posts)
	})

	t.Run("Reported posts lookup failure still sends the email", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u1", Email: "u1@x.com", Name: "One", Status: "normal"})
		source := new(MockReportedPostsSource)
		source.On("ReportedPostsByAuthor", mock.Anything, "u1", defaultReportedPostsLimit).Return(nil, errors.New("timeout"))
		email, push := okNotifiers()

		res := NewEscalationService(repo, email, push, WithReportedPosts(source, 0)).Escalate(ctx, "u1")
		assert.True(t, res.Success)
		email.AssertCalled(t, "SendEscalationEmail", mock.Anything, "u1@x.com", "One", models.StatusReminded, []notifications.ReportedPost(nil))
	})

	t.Run("Only a ban invalidates dashboard stats", func(t *testing.T) {
		repo := newMemoryUserRepository(models.User{ID: "u1", Email: "u1@x.com", Status: "reminded"})
		stats := new(MockStatsInvalidator)
		stats.On("InvalidateCache", mock.Anything).Return(errors.New("store closed"))
		email, push := okNotifiers()
		svc := NewEscalationService(repo, email, push, WithStatsInvalidator(stats))

		svc.Escalate(ctx, "u1")
		stats.AssertNotCalled(t, "InvalidateCache", mock.Anything)

		res := svc.Escalate(ctx, "u1")
		assert.True(t, res.Success)
		assert.Equal(t, models.StatusBanned, res.NewStatus)
		stats.AssertNumberOfCalls(t, "InvalidateCache", 1)
	})
}

func TestEscalationService_Concurrency(t *testing.T) {
	repo := newMemoryUserRepository(models.User{ID: "u1", Email: "u1@x.com", Status: "normal"})
	repo.delay = 2 * time.Millisecond
	email, push := okNotifiers()
	svc := NewEscalationService(repo, email, push).(*escalationService)

	const callers = 10
	results := make([]models.StatusEscalationResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Escalate(context.Background(), "u1")
		}(i)
	}
	wg.Wait()

	transitions := map[models.StatusLevel]int{}
	for _, res := range results {
		require.True(t, res.Success, res.Error)
		if res.WasEscalated {
			assert.Equal(t, res.PreviousStatus.Next(), res.NewStatus)
			transitions[res.NewStatus]++
		}
	}

	assert.Equal(t, map[models.StatusLevel]int{
		models.StatusReminded: 1,
		models.StatusWarned:   1,
		models.StatusBanned:   1,
	}, transitions)
	assert.Equal(t, models.StatusBanned, repo.status("u1"))
	email.AssertNumberOfCalls(t, "SendEscalationEmail", 3)
	assert.Equal(t, 0, svc.locks.size())
}

func TestEscalationService_IsBanned(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "banned").Return(&models.User{ID: "banned", Status: "BANNED"}, nil)
	repo.On("FindByID", mock.Anything, "warned").Return(&models.User{ID: "warned", Status: "warned"}, nil)
	repo.On("FindByID", mock.Anything, "broken").Return(nil, errors.New("network down"))
	svc := NewEscalationService(repo, nil, nil)

	assert.True(t, svc.IsBanned(ctx, "banned"))
	assert.False(t, svc.IsBanned(ctx, "warned"))
	assert.False(t, svc.IsBanned(ctx, "broken"))
}

func TestKeyMutex(t *testing.T) {
	k := newKeyMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.size())

	acquired := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked key")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()
	assert.Equal(t, 0, k.size())
}
