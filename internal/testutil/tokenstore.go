// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/clock"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

type storeEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore implements auth.TokenStore with per-key expiry driven by a clock.
type MemoryTokenStore struct {
	GetErr          error
	SetErr          error
	GetAndDeleteErr error
	DeleteErr       error
	IncrementErr    error

	// Writes counts successful mutations.
	Writes int

	clock   clock.Clock
	entries map[string]storeEntry
	mu      sync.Mutex
}

// NewMemoryTokenStore creates an empty store. A nil clock uses the wall clock.
func NewMemoryTokenStore(c clock.Clock) *MemoryTokenStore {
	return &MemoryTokenStore{clock: clock.OrSystem(c), entries: make(map[string]storeEntry)}
}

// lookup returns the live entry under key, evicting it if expired. Caller holds mu.
func (s *MemoryTokenStore) lookup(key string) (storeEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return storeEntry{}, false
	}
	if !s.clock.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return storeEntry{}, false
	}
	return entry, true
}

func (s *MemoryTokenStore) Get(_ context.Context, key string) (string, error) {
	if s.GetErr != nil {
		return "", s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		return "", auth.ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *MemoryTokenStore) SetWithExpiry(_ context.Context, key, value string, ttl time.Duration) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = storeEntry{value: value, expiresAt: s.clock.Now().Add(ttl)}
	s.Writes++
	return nil
}

func (s *MemoryTokenStore) GetAndDelete(_ context.Context, key string) (string, error) {
	if s.GetAndDeleteErr != nil {
		return "", s.GetAndDeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		return "", auth.ErrKeyNotFound
	}
	delete(s.entries, key)
	s.Writes++
	return entry.value, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.Writes++
	return nil
}

func (s *MemoryTokenStore) IncrementWithinLimit(_ context.Context, key string, limit int, window time.Duration, refreshTTL bool) (int, bool, error) {
	if s.IncrementErr != nil {
		return 0, false, s.IncrementErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.lookup(key)
	current := 0
	if exists {
		current, _ = strconv.Atoi(entry.value)
	}
	if current >= limit {
		return current, false, nil
	}

	current++
	expiresAt := entry.expiresAt
	if !exists || refreshTTL {
		expiresAt = s.clock.Now().Add(window)
	}
	s.entries[key] = storeEntry{value: strconv.Itoa(current), expiresAt: expiresAt}
	s.Writes++
	return current, true, nil
}

// Has reports whether key currently holds a live value.
func (s *MemoryTokenStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(key)
	return ok
}

// TTL returns the remaining lifetime of key, or zero if absent.
func (s *MemoryTokenStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(key)
	if !ok {
		return 0
	}
	return entry.expiresAt.Sub(s.clock.Now())
}

// Keys returns the live keys with the given prefix.
func (s *MemoryTokenStore) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for key := range s.entries {
		if _, ok := s.lookup(key); ok && len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	return keys
}
