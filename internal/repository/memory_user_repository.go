package repository

import (
	"context"
	"sync"
	"time"

	"party_web/internal/models"
)

type memoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]models.User
	byName map[string]uint
	nextID uint
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:  make(map[uint]models.User),
		byName: make(map[string]uint),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return ErrDuplicateUsername
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	r.byName[user.Username] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}
