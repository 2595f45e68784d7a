package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:5174"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Mongo MongoConfig
	Redis RedisConfig
	TTS   TTSConfig
	Reset ResetConfig
	Mail  MailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=voicify"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type TTSConfig struct {
	AudioDir      string        `env:"AUDIO_DIR,      default=./audio"`
	MaxTextLen    int           `env:"MAX_TEXT_LEN,   default=1000"`
	Languages     []string      `env:"LANGUAGES,      default=en,es,fr,de,it,pt,ru,ja,ko,zh"`
	Retention     time.Duration `env:"RETENTION,      default=1h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=10m"`
}

type ResetConfig struct {
	TokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`
	// Requests per client per window on login and forgot-password.
	RateLimit       int           `env:"AUTH_RATE_LIMIT,        default=10"`
	RateLimitWindow time.Duration `env:"AUTH_RATE_LIMIT_WINDOW, default=1m"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromName       string `env:"FROM_NAME,  default=Voicify"`
	FromEmail      string `env:"FROM_EMAIL, default=no-reply@voicify.app"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
