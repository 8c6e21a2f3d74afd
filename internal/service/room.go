package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"party_web/internal/game"
	"party_web/internal/models"
	"party_web/internal/repository"
)

// RoomService 房間的建立、加入、離開與踢人
type RoomService struct {
	roomRepo repository.RoomRepository
	locks    *RoomLocks
	now      func() time.Time
	newCode  func() string
	logger   *slog.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, locks *RoomLocks, opts Options) *RoomService {
	opts.defaults()
	return &RoomService{
		roomRepo: roomRepo,
		locks:    locks,
		now:      opts.Now,
		newCode:  opts.NewCode,
		logger:   opts.Logger,
	}
}

// CreateRoom 以新的唯一代碼建立房間，admin 為唯一成員
func (s *RoomService) CreateRoom(ctx context.Context, admin uint) (*models.Room, error) {
	for range game.MaxCodeAttempts {
		code := s.newCode()
		exists, err := s.roomRepo.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		room := game.NewRoom(code, admin, s.now())
		if err := s.roomRepo.Create(ctx, room); err != nil {
			// 檢查後到寫入前被別人搶走
			if errors.Is(err, repository.ErrDuplicateCode) {
				continue
			}
			return nil, err
		}
		s.logger.Info("room created", "code", code, "admin", admin)
		return room, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", game.ErrCodeSpaceExhausted, game.MaxCodeAttempts)
}

// JoinRoom 加入房間，已是成員時不變
func (s *RoomService) JoinRoom(ctx context.Context, code string, player uint) (*models.Room, error) {
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()

	var joined *models.Room
	err := s.roomRepo.Update(ctx, code, func(room *models.Room) error {
		game.Join(room, player, s.now())
		joined = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("player joined room", "code", code, "player", player)
	return joined, nil
}

// LeaveRoom 離開房間；最後一人離開時房間被刪除
func (s *RoomService) LeaveRoom(ctx context.Context, code string, player uint) error {
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()

	var destroyed bool
	err := s.roomRepo.Update(ctx, code, func(room *models.Room) error {
		empty, err := game.Leave(room, player, s.now())
		destroyed = empty
		return err
	})
	if err != nil {
		return err
	}
	if destroyed {
		s.logger.Info("room destroyed", "code", code)
	} else {
		s.logger.Info("player left room", "code", code, "player", player)
	}
	return nil
}

// Kick 管理員把 target 移出房間
func (s *RoomService) Kick(ctx context.Context, code string, requester, target uint) error {
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()

	err := s.roomRepo.Update(ctx, code, func(room *models.Room) error {
		return game.Kick(room, requester, target, s.now())
	})
	if err != nil {
		return err
	}
	s.logger.Info("player kicked", "code", code, "admin", requester, "player", target)
	return nil
}

// NormalizeCode 房間代碼不分大小寫
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
