package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	models "github.com/flpflJ/crypto-chat/internal/user/model"
)

// MemoryUserRepository keeps identities in process memory so the relay can
// run without Postgres, matching the durable repository's behavior contract.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.Username] = &clone
	return nil
}

func (r *MemoryUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *MemoryUserRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[username]
	return ok, nil
}

func (r *MemoryUserRepository) SetPublicKey(_ context.Context, username string, pubkey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	u.PublicKey = pubkey
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) ListPublicKeys(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make(map[string]string)
	for _, u := range r.users {
		if u.PublicKey != "" {
			keys[u.Username] = u.PublicKey
		}
	}
	return keys, nil
}

func (r *MemoryUserRepository) ListMessageable(_ context.Context, excludeUsername string) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.User
	for _, u := range r.users {
		if u.Username == excludeUsername || u.PublicKey == "" {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
