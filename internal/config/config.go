// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DB DBConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	RabbitMQURL string

	JWTSecret         string
	AccessTTL         time.Duration
	AdminUser         string
	AdminPasswordHash string
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads an optional .env file (path from ENV_FILE, default ".env")
// and then the environment. Variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return Config{
		Env:      getEnv("APP_ENV", "dev"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "festival"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0),
		SessionTTL:        getDuration("SESSION_TTL", 2*time.Hour),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTTL:         time.Duration(getInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}

// IsProduction reports whether the service runs with APP_ENV=prod.
func (c Config) IsProduction() bool { return c.Env == "prod" || c.Env == "production" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
