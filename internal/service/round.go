package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"party_web/internal/content"
	"party_web/internal/game"
	"party_web/internal/models"
	"party_web/internal/repository"
)

// RoundService 兩種遊戲模式的回合操作
type RoundService struct {
	roomRepo  repository.RoomRepository
	source    *content.Source
	locks     *RoomLocks
	maxRounds int
	rnd       game.Rand
	now       func() time.Time
	logger    *slog.Logger
}

func NewRoundService(roomRepo repository.RoomRepository, source *content.Source, locks *RoomLocks, opts Options) *RoundService {
	opts.defaults()
	return &RoundService{
		roomRepo:  roomRepo,
		source:    source,
		locks:     locks,
		maxRounds: opts.MaxRounds,
		rnd:       opts.Rand,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// SwitchMode 管理員切換模式，所有回合資料與分數歸零
func (s *RoundService) SwitchMode(ctx context.Context, code string, player uint, mode models.GameMode) error {
	return s.mutate(ctx, code, func(room *models.Room) error {
		if err := game.RequireAdmin(room, player); err != nil {
			return err
		}
		return game.SwitchMode(room, mode, s.now())
	})
}

// StartSpyRound 取得臥底詞後開始新回合
func (s *RoundService) StartSpyRound(ctx context.Context, code string, player uint) error {
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()

	// 先檢查，避免無效請求也去呼叫生成服務
	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := game.RequireAdmin(room, player); err != nil {
		return err
	}
	if room.Mode != models.ModeSpy {
		return game.ErrInvalidMode
	}

	word := s.source.SpyWord(ctx)
	err = s.roomRepo.Update(ctx, code, func(room *models.Room) error {
		return game.StartSpyRound(room, word, s.rnd, s.now())
	})
	if err != nil {
		return err
	}
	s.logger.Info("spy round started", "code", code)
	return nil
}

func (s *RoundService) ConfirmRole(ctx context.Context, code string, player uint) error {
	return s.mutate(ctx, code, func(room *models.Room) error {
		return game.ConfirmRole(room, player, s.now())
	})
}

// StartKalakRound 開始下一回合；maxRounds 不大於 0 時使用預設值。
// 已達回合上限時房間進入 GAME_OVER 並回傳 game.ErrRoundLimitReached
func (s *RoundService) StartKalakRound(ctx context.Context, code string, player uint, maxRounds int) error {
	if maxRounds <= 0 {
		maxRounds = s.maxRounds
	}
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()

	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := game.RequireAdmin(room, player); err != nil {
		return err
	}
	if room.Mode != models.ModeKalak {
		return game.ErrInvalidMode
	}

	var q content.Question
	if !game.RoundLimitReached(room, maxRounds) {
		q = s.source.KalakQuestion(ctx)
	}

	var limitReached bool
	err = s.roomRepo.Update(ctx, code, func(room *models.Room) error {
		err := game.StartKalakRound(room, q, maxRounds, s.now())
		// GAME_OVER 仍需寫入
		if errors.Is(err, game.ErrRoundLimitReached) {
			limitReached = true
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if limitReached {
		s.logger.Info("kalak game over", "code", code, "max_rounds", maxRounds)
		return game.ErrRoundLimitReached
	}
	s.logger.Info("kalak round started", "code", code)
	return nil
}

func (s *RoundService) SubmitBluff(ctx context.Context, code string, player uint, text string) error {
	return s.mutate(ctx, code, func(room *models.Room) error {
		return game.SubmitBluff(room, player, text, s.now())
	})
}

// CastVote choice 為 0 表示投給正確答案
func (s *RoundService) CastVote(ctx context.Context, code string, player, choice uint) error {
	return s.mutate(ctx, code, func(room *models.Room) error {
		return game.CastVote(room, player, choice, s.now())
	})
}

// AdvancePhase 管理員強制進入下一階段
func (s *RoundService) AdvancePhase(ctx context.Context, code string, player uint) error {
	return s.mutate(ctx, code, func(room *models.Room) error {
		if err := game.RequireAdmin(room, player); err != nil {
			return err
		}
		return game.AdvancePhase(room, s.now())
	})
}

func (s *RoundService) mutate(ctx context.Context, code string, fn func(room *models.Room) error) error {
	code = NormalizeCode(code)
	unlock := s.locks.Lock(code)
	defer unlock()
	return s.roomRepo.Update(ctx, code, fn)
}
