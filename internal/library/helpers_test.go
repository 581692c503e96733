// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mtreilly/math-error/internal/kv"
)

var errQuota = errors.New("quota exceeded")

// flakyStore wraps a MemoryStore and fails reads or writes on demand.
type flakyStore struct {
	*kv.MemoryStore
	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls int
	getCalls int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: kv.NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	s.getCalls++
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, errQuota
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.setCalls++
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return errQuota
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) setFailures(get, set bool) {
	s.mu.Lock()
	s.failGet, s.failSet = get, set
	s.mu.Unlock()
}

func (s *flakyStore) calls() (gets, sets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls, s.setCalls
}

// frozenClock always returns the same instant, so any id derived from the
// clock alone would collide.
func frozenClock() func() time.Time {
	t := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

// sequentialIDs returns ids id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestLibrary(t *testing.T, store kv.Store, opts ...Option) *Library {
	t.Helper()
	lib := New(store, opts...)
	lib.Initialize(context.Background())
	return lib
}
