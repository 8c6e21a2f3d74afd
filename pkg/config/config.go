package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	DB      DBConfig
	JWT     JWTConfig
	Content ContentConfig
	Game    GameConfig
	Log     LogConfig
}

type ServerConfig struct {
	Address        string
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 每個客戶端 IP 的請求速率，RPS 為 0 表示不限制
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// StorageConfig Driver 為 postgres 或 memory
type StorageConfig struct {
	Driver string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type ContentConfig struct {
	// Endpoint 為空時不呼叫外部生成服務，一律使用備援內容
	Endpoint       string
	APIKey         string `mapstructure:"api_key"`
	Timeout        time.Duration
	WordPrompt     string `mapstructure:"word_prompt"`
	QuestionPrompt string `mapstructure:"question_prompt"`
	Categories     []string
	Themes         []string
	BackupWords    []string `mapstructure:"backup_words"`
}

type GameConfig struct {
	MaxRounds int `mapstructure:"max_rounds"`
}

type LogConfig struct {
	Level string
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

const (
	defaultWordPrompt = "Donne-moi un seul mot ou nom propre de la catégorie « {category} » pour un jeu de l'imposteur. " +
		"Réponds uniquement avec le mot."
	defaultQuestionPrompt = "Invente une question de culture générale sur le thème « {theme} » pour un jeu de bluff. " +
		"Réponds sur une seule ligne au format QUESTION|RÉPONSE|IMAGE, la réponse en un à trois mots, IMAGE vaut _ si aucune."
)

// Load 依序讀取 .env、config.yaml 與 PARTY_ 開頭的環境變數，後者優先
func Load() (*Config, error) {
	// .env 不存在不算錯誤
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PARTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.rps", 10)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("storage.driver", StoragePostgres)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "party")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 240*time.Hour)

	v.SetDefault("content.endpoint", "")
	v.SetDefault("content.api_key", "")
	v.SetDefault("content.timeout", 8*time.Second)
	v.SetDefault("content.word_prompt", defaultWordPrompt)
	v.SetDefault("content.question_prompt", defaultQuestionPrompt)
	v.SetDefault("content.categories", []string{})
	v.SetDefault("content.themes", []string{})
	v.SetDefault("content.backup_words", []string{})

	v.SetDefault("game.max_rounds", 5)
	v.SetDefault("log.level", "info")
}

// Validate 檢查啟動前必須正確的設定
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Storage.Driver != StoragePostgres && c.Storage.Driver != StorageMemory {
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Game.MaxRounds <= 0 {
		return fmt.Errorf("game.max_rounds must be positive, got %d", c.Game.MaxRounds)
	}
	return nil
}
