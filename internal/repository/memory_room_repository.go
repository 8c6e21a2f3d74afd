package repository

import (
	"context"
	"sync"

	"party_web/internal/game"
	"party_web/internal/models"
)

// memoryRoomRepository 單機模式與測試使用；讀寫都經過深拷貝，外部拿到的房間不會影響儲存內容
type memoryRoomRepository struct {
	mu     sync.RWMutex
	rooms  map[string]*models.Room
	nextID uint
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoomRepository{rooms: make(map[string]*models.Room)}
}

func (r *memoryRoomRepository) Create(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.Code]; exists {
		return ErrDuplicateCode
	}
	r.nextID++
	room.ID = r.nextID
	r.rooms[room.Code] = room.Clone()
	return nil
}

func (r *memoryRoomRepository) FindByCode(_ context.Context, code string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (r *memoryRoomRepository) Update(_ context.Context, code string, fn func(room *models.Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[code]
	if !ok {
		return game.ErrRoomNotFound
	}
	room := stored.Clone()
	if err := fn(room); err != nil {
		return err
	}
	if len(room.Members) == 0 {
		delete(r.rooms, code)
		return nil
	}
	r.rooms[code] = room.Clone()
	return nil
}

func (r *memoryRoomRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; !ok {
		return game.ErrRoomNotFound
	}
	delete(r.rooms, code)
	return nil
}

func (r *memoryRoomRepository) Exists(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.rooms[code]
	return exists, nil
}
