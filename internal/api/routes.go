package api

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"party_web/internal/api/handlers"
	"party_web/internal/middleware"
	"party_web/internal/service"
	"party_web/internal/utils"
)

// RouterOptions 路由層的外部依賴
type RouterOptions struct {
	Tokens         *utils.TokenManager
	AllowedOrigins []string
	RateLimiter    *middleware.IPRateLimiter
	Logger         *slog.Logger
}

func NewRouter(services *service.Services, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	SetupRoutes(r, services, opts)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func SetupRoutes(r *gin.Engine, services *service.Services, opts RouterOptions) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	roomHandler := handlers.NewRoomHandler(services.Room, services.Status, services.User)
	roundHandler := handlers.NewRoundHandler(services.Round)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
			"kind":  "NotFound",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", middleware.RateLimit(opts.RateLimiter), authHandler.Register)
		api.POST("/login", middleware.RateLimit(opts.RateLimiter), authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(opts.Tokens))
	{
		rooms := authorized.Group("/rooms")
		{
			// 查詢，客戶端會頻繁輪詢，不限速
			rooms.GET("/:code", roomHandler.GetRoom)
			rooms.GET("/:code/status", roomHandler.GetStatus)

			actions := rooms.Group("")
			actions.Use(middleware.RateLimit(opts.RateLimiter))

			// 房間參與
			actions.POST("", roomHandler.CreateRoom)
			actions.POST("/join", roomHandler.JoinRoom)
			actions.POST("/:code/leave", roomHandler.LeaveRoom)
			actions.POST("/:code/kick", roomHandler.Kick)
			actions.POST("/:code/mode", roundHandler.SwitchMode)

			// 臥底模式
			actions.POST("/:code/spy/start", roundHandler.StartSpy)
			actions.POST("/:code/spy/confirm", roundHandler.ConfirmRole)

			// Kalak 模式
			actions.POST("/:code/kalak/start", roundHandler.StartKalak)
			actions.POST("/:code/kalak/bluff", roundHandler.SubmitBluff)
			actions.POST("/:code/kalak/vote", roundHandler.CastVote)
			actions.POST("/:code/kalak/advance", roundHandler.Advance)
		}
	}
}
