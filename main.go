package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	"party_web/internal/api"
	"party_web/internal/content"
	"party_web/internal/middleware"
	"party_web/internal/models"
	"party_web/internal/repository"
	"party_web/internal/service"
	"party_web/internal/storage"
	"party_web/internal/utils"
	"party_web/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: time.DateTime,
	}))
	slog.SetDefault(logger)

	// 初始化 repositories，memory 模式不需要資料庫
	var repos *repository.Repositories
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		repos = repository.NewMemoryRepositories()
	default:
		db, err := storage.NewPostgresDB(cfg.DB)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		// 確保在程序結束時關閉數據庫連接
		defer db.Close()

		// 自動遷移資料庫結構
		if err := db.AutoMigrate(
			&models.User{},
			&models.Room{},
			&models.RoomMember{},
			&models.Bluff{},
			&models.BluffVote{},
			&models.ScoreEntry{},
		); err != nil {
			logger.Error("failed to auto migrate database", "error", err)
			os.Exit(1)
		}
		repos = repository.NewRepositories(db)
	}

	// 內容生成，沒有設定 endpoint 時一律使用備援內容
	var gen content.Generator = content.Unavailable{}
	if cfg.Content.Endpoint != "" {
		gen = content.NewHTTPGenerator(cfg.Content.Endpoint, cfg.Content.APIKey, &http.Client{Timeout: cfg.Content.Timeout})
	} else {
		logger.Warn("content.endpoint is empty, games will use backup content")
	}
	source := content.NewSource(
		content.NewPromptProvider(gen, cfg.Content.WordPrompt, cfg.Content.QuestionPrompt),
		content.Options{
			Categories:  cfg.Content.Categories,
			Themes:      cfg.Content.Themes,
			BackupWords: cfg.Content.BackupWords,
			Timeout:     cfg.Content.Timeout,
		},
		logger.With("component", "content"),
	)

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// 初始化 services
	services := service.NewServices(repos, source, tokens, service.Options{
		MaxRounds: cfg.Game.MaxRounds,
		Logger:    logger,
	})

	var limiter *middleware.IPRateLimiter
	if cfg.Server.RateLimit.RPS > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
	}

	// 設置 Gin 路由
	if parseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(services, api.RouterOptions{
		Tokens:         tokens,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
		Logger:         logger,
	})

	// 啟動伺服器
	logger.Info("server starting", "address", cfg.Server.Address, "storage", cfg.Storage.Driver)
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
