// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"sync"

	"github.com/taibuivan/swifttravel/internal/users/auth"
)

// MemoryUserRepository implements auth.UserRepository over a map keyed by ID.
type MemoryUserRepository struct {
	FindByEmailErr error
	FindByIDErr    error
	CreateErr      error
	UpdateErr      error

	// RaceOnCreate, when set, is inserted just before the next Create, which
	// then fails with auth.ErrUserExists as if a concurrent request had won.
	RaceOnCreate *auth.User

	Creates int
	Updates int

	users map[string]*auth.User
	mu    sync.Mutex
}

// NewMemoryUserRepository returns a repository seeded with users.
func NewMemoryUserRepository(users ...*auth.User) *MemoryUserRepository {
	repository := &MemoryUserRepository{users: make(map[string]*auth.User)}
	for _, user := range users {
		copied := *user
		repository.users[user.ID] = &copied
	}
	return repository
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if r.FindByEmailErr != nil {
		return nil, r.FindByEmailErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if r.FindByIDErr != nil {
		return nil, r.FindByIDErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.RaceOnCreate != nil {
		winner := *r.RaceOnCreate
		r.users[winner.ID] = &winner
		r.RaceOnCreate = nil
	}

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, auth.ErrUserExists
		}
	}

	copied := *user
	r.users[user.ID] = &copied
	r.Creates++
	result := copied
	return &result, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, id string, update auth.UserUpdate) (*auth.User, error) {
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	if update.Name != nil {
		if *update.Name == "" {
			user.Name = nil
		} else {
			name := *update.Name
			user.Name = &name
		}
	}
	if update.Preferences != nil {
		user.Preferences = *update.Preferences
	}
	if update.LastActiveAt != nil {
		user.LastActiveAt = *update.LastActiveAt
	}
	r.Updates++

	copied := *user
	return &copied, nil
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
