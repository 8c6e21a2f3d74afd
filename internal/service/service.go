package service

import (
	"log/slog"
	"time"

	"party_web/internal/content"
	"party_web/internal/game"
	"party_web/internal/repository"
	"party_web/internal/utils"
)

type Services struct {
	User   *UserService
	Room   *RoomService
	Round  *RoundService
	Status *StatusService
}

// Options 服務層的可調參數，零值欄位使用預設值
type Options struct {
	MaxRounds int
	Now       func() time.Time
	NewCode   func() string
	Rand      game.Rand
	Logger    *slog.Logger
}

func (o *Options) defaults() {
	if o.MaxRounds <= 0 {
		o.MaxRounds = 5
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewCode == nil {
		o.NewCode = game.GenerateRoomCode
	}
	if o.Rand == nil {
		o.Rand = game.DefaultRand
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

func NewServices(repos *repository.Repositories, source *content.Source, tokens *utils.TokenManager, opts Options) *Services {
	opts.defaults()
	locks := NewRoomLocks()

	return &Services{
		User:   NewUserService(repos.User, tokens, opts.Logger),
		Room:   NewRoomService(repos.Room, locks, opts),
		Round:  NewRoundService(repos.Room, source, locks, opts),
		Status: NewStatusService(repos.Room, locks),
	}
}
