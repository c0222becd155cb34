// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	usersErrors "github.com/qolzam/telar/apps/console/users/errors"
	"github.com/qolzam/telar/apps/console/users/models"
	"github.com/qolzam/telar/apps/console/users/repository"
	"github.com/qolzam/telar/apps/console/users/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedUserRepository is a compare-and-swap user store whose next FindByID for one user can be held open
type gatedUserRepository struct {
	mu      sync.Mutex
	users   map[string]models.User
	gateID  string
	entered chan struct{}
	release chan struct{}
}

var _ repository.UserRepository = (*gatedUserRepository)(nil)

// hold parks the next lookup of id after it has read the user; letGo resumes it
func (r *gatedUserRepository) hold(id string) (parked <-chan struct{}, letGo func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateID = id
	r.entered = make(chan struct{})
	r.release = make(chan struct{})
	release := r.release
	return r.entered, func() { close(release) }
}

func (r *gatedUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	u, ok := r.users[id]
	var entered, release chan struct{}
	if id == r.gateID && r.release != nil {
		entered, release = r.entered, r.release
		r.entered, r.release = nil, nil
	}
	r.mu.Unlock()

	// the snapshot is taken before parking, so an unserialised writer would race the caller's CAS
	if release != nil {
		close(entered)
		<-release
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, usersErrors.ErrUserNotFound)
	}
	return &u, nil
}

func (r *gatedUserRepository) CompareAndSetStatus(ctx context.Context, id, expected string, next models.StatusLevel, changedBy string) (uuid.UUID, error) {
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

func (r *gatedUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return nil, nil
}

func (r *gatedUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (r *gatedUserRepository) CountByStatus(ctx context.Context, level models.StatusLevel) (int64, error) {
	return 0, nil
}

func (r *gatedUserRepository) ResetStatus(ctx context.Context, id, changedBy string) (string, uuid.UUID, error) {
	return "", uuid.Nil, nil
}

func (r *gatedUserRepository) ListHistory(ctx context.Context, id string, limit int) ([]models.StatusHistoryEntry, error) {
	return nil, nil
}

func TestUserHandler_EscalateSerialisesPerUser(t *testing.T) {
	repo := &gatedUserRepository{users: map[string]models.User{
		"user-aaaa": {ID: "user-aaaa", Email: "a@telar.dev", Status: "normal"},
	}}
	h := NewUserHandler(services.NewUserService(repo, nil), services.NewEscalationService(repo, nil, nil))
	app := fiber.New()
	app.Post("/users/:userId/escalate", h.Escalate)

	escalate := func(id string) (int, string) {
		resp, err := app.Test(httptest.NewRequest("POST", "/users/"+id+"/escalate", nil), -1)
		require.NoError(t, err)
		var body map[string]interface{}
		decode(t, resp, &body)
		status, _ := body["newStatus"].(string)
		return resp.StatusCode, status
	}

	// overlapping runs: the second waits for the first and steps from its result
	overlap := func() [2]string {
		parked, letGo := repo.hold("user-aaaa")
		var wg sync.WaitGroup
		var codes [2]int
		var statuses [2]string

		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[0], statuses[0] = escalate("user-aaaa")
		}()
		<-parked

		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[1], statuses[1] = escalate("user-aaaa")
		}()
		time.Sleep(50 * time.Millisecond)

		letGo()
		wg.Wait()
		assert.Equal(t, [2]int{http.StatusOK, http.StatusOK}, codes)
		return statuses
	}

	assert.Equal(t, [2]string{"reminded", "warned"}, overlap())

	for i := 0; i < 50; i++ {
		code, _ := escalate(fmt.Sprintf("zzzz-%04d", i))
		assert.Equal(t, http.StatusNotFound, code)
	}

	assert.Equal(t, [2]string{"banned", "banned"}, overlap())
	code, status := escalate("user-aaaa")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "banned", status)
}
