// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"sync"
	"sync/atomic"
)

var (
	sharedMu      sync.Mutex
	sharedManager atomic.Pointer[Manager]
)

// Shared returns the process-wide Manager, building it with opener on first use.
// A failed open is not remembered; the next call tries again.
func Shared(opener func() (*Manager, error)) (*Manager, error) {
	if m := sharedManager.Load(); m != nil {
		return m, nil
	}
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if m := sharedManager.Load(); m != nil {
		return m, nil
	}
	m, err := opener()
	if err != nil {
		return nil, err
	}
	sharedManager.Store(m)
	return m, nil
}
