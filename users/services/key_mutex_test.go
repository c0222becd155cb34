// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refs reports how many goroutines hold or wait on key
func (k *keyMutex) refs(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		return l.refs
	}
	return 0
}

func TestKeyMutex_RequestBackedKeys(t *testing.T) {
	locks := newKeyMutex()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	// Params are passed through uncopied so the lock sees strings backed by fasthttp's pooled buffers.
	app := fiber.New()
	app.Post("/lock/:id", func(c *fiber.Ctx) error {
		unlock := locks.Lock(c.Params("id"))
		defer unlock()
		if c.Params("id") == "user-aaaa" {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
		return c.SendStatus(http.StatusNoContent)
	})

	send := func(id string) int {
		resp, err := app.Test(httptest.NewRequest("POST", "/lock/"+id, nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		statuses[0] = send("user-aaaa")
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		statuses[1] = send("user-aaaa")
	}()
	require.Eventually(t, func() bool { return locks.refs("user-aaaa") == 2 }, time.Second, time.Millisecond)

	close(release)
	wg.Wait()
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent}, statuses)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusNoContent, send(fmt.Sprintf("zzzz-%04d", i)))
	}

	assert.Equal(t, 0, locks.size())
}
