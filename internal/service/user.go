package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"party_web/internal/models"
	"party_web/internal/repository"
	"party_web/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// PlayerInfo 排行榜與房間畫面顯示用的玩家資料
type PlayerInfo struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, tokens *utils.TokenManager, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Register 建立帳號，密碼以 bcrypt 儲存
func (s *UserService) Register(ctx context.Context, username, password, avatarURL string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:  username,
		Password:  string(hashedPassword),
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login 驗證帳密並簽發 token
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Resolve 把玩家 ID 換成顯示資料，查不到的帳號以編號代替名稱
func (s *UserService) Resolve(ctx context.Context, ids []uint) (map[uint]PlayerInfo, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	infos := make(map[uint]PlayerInfo, len(ids))
	for _, id := range ids {
		infos[id] = PlayerInfo{ID: id, Username: fmt.Sprintf("player-%d", id)}
	}
	for _, u := range users {
		infos[u.ID] = PlayerInfo{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
	}
	return infos, nil
}
