package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Database DBConfig
	Security SecConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type HTTPConfig struct {
	Port    uint16        `env:"PORT" env-default:"3001"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
}

type DBConfig struct {
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     uint16 `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName   string `env:"POSTGRES_DB" env-default:"zerodha"`
}

type SecConfig struct {
	JWTSecret              string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL               time.Duration `env:"TOKEN_TTL" env-default:"72h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" env-default:"1h"`
	CookieSecure           bool          `env:"COOKIE_SECURE" env-default:"false"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:5174,https://zerodha1dashboard.vercel.app,https://zerodha1frontend.vercel.app"`
}

// RedisConfig enables the redis ledger channel when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	Channel  string `env:"REDIS_CHANNEL" env-default:"ledger.events"`
}

// KafkaConfig enables the ledger topic producer when Brokers is set.
type KafkaConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" env-separator:","`
	Topic        string        `env:"KAFKA_TOPIC" env-default:"ledger.orders"`
	BatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" env-default:"200ms"`
	RequiredAcks int           `env:"KAFKA_ACKS" env-default:"1"`
	MaxAttempts  int           `env:"KAFKA_MAX_ATTEMPTS" env-default:"3"`
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" env-default:"10s"`
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment variables")
	}

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("failed to read environment variables", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return &cfg
}

// Validate rejects values that would make the service misbehave at runtime
// rather than at startup.
func (c *Config) Validate() error {
	var errList []error
	if c.Security.TokenTTL <= 0 {
		errList = append(errList, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Security.TokenTTL))
	}
	if c.Security.SessionCleanupInterval <= 0 {
		errList = append(errList, fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive, got %s", c.Security.SessionCleanupInterval))
	}
	if c.HTTP.Timeout <= 0 {
		errList = append(errList, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTP.Timeout))
	}
	return errors.Join(errList...)
}
