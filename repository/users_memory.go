package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/dododo1295/quicknotes/model"
)

var _ UserStore = (*MemoryUserRepo)(nil)

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User)}
}

func (r *MemoryUserRepo) AddUser(ctx context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return ErrUserExists
		}
	}
	if _, ok := r.users[user.UserID]; ok {
		return ErrUserExists
	}

	r.users[user.UserID] = user
	return nil
}

func (r *MemoryUserRepo) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (r *MemoryUserRepo) FindUser(ctx context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Ping(context.Context) error {
	return nil
}
