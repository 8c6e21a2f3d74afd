package service

import (
	"context"

	"party_web/internal/game"
	"party_web/internal/repository"
)

// StatusService 唯讀查詢，只取讀鎖
type StatusService struct {
	roomRepo repository.RoomRepository
	locks    *RoomLocks
}

func NewStatusService(roomRepo repository.RoomRepository, locks *RoomLocks) *StatusService {
	return &StatusService{roomRepo: roomRepo, locks: locks}
}

func (s *StatusService) GetStatus(ctx context.Context, code string) (game.Status, error) {
	code = NormalizeCode(code)
	unlock := s.locks.RLock(code)
	defer unlock()

	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		return game.Status{}, err
	}
	return game.BuildStatus(room), nil
}

// GetView 回傳某位玩家看到的房間畫面
func (s *StatusService) GetView(ctx context.Context, code string, player uint) (game.View, error) {
	code = NormalizeCode(code)
	unlock := s.locks.RLock(code)
	defer unlock()

	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		return game.View{}, err
	}
	return game.BuildView(room, player)
}
