package repository

import "party_web/internal/storage"

type Repositories struct {
	User UserRepository
	Room RoomRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
		Room: NewRoomRepository(db),
	}
}

// NewMemoryRepositories 不需要資料庫，重啟後資料消失
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		User: NewMemoryUserRepository(),
		Room: NewMemoryRoomRepository(),
	}
}
