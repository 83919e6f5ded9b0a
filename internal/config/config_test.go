package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"APP_ENV", "PORT", "DB_HOST", "SESSION_TTL", "ACCESS_TOKEN_TTL_MIN", "REDIS_DB"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" || cfg.DB.Host != "localhost" || cfg.DB.Name != "festival" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.AccessTTL != time.Hour {
		t.Fatalf("unexpected durations: %v %v", cfg.SessionTTL, cfg.AccessTTL)
	}
	if cfg.IsProduction() {
		t.Fatal("dev config reported as production")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	body := "PORT=9090\nSESSION_TTL=15m\nREDIS_DB=3\nACCESS_TOKEN_TTL_MIN=5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	// godotenv never overrides variables that are already set, so clear and
	// unset them for the duration of the test.
	for _, k := range []string{"PORT", "SESSION_TTL", "REDIS_DB", "ACCESS_TOKEN_TTL_MIN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := Load()
	if cfg.Port != "9090" || cfg.SessionTTL != 15*time.Minute || cfg.RedisDB != 3 || cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("REDIS_DB", "x")
	cfg := Load()
	if cfg.SessionTTL != 2*time.Hour || cfg.RedisDB != 0 {
		t.Fatalf("invalid values not ignored: %+v", cfg)
	}
}

func TestLoad_OptionalIntegrationsDefaultOff(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"RABBITMQ_URL", "JWT_SECRET", "ADMIN_PASSWORD_HASH"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg := Load()
	if cfg.RabbitMQURL != "" {
		t.Errorf("RabbitMQURL = %q, want empty", cfg.RabbitMQURL)
	}
	if cfg.JWTSecret != "" {
		t.Errorf("JWTSecret = %q, want empty", cfg.JWTSecret)
	}

	t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")
	t.Setenv("JWT_SECRET", "s3cret-key")
	cfg = Load()
	if cfg.RabbitMQURL != "amqp://broker:5672/" || cfg.JWTSecret != "s3cret-key" {
		t.Errorf("explicit values not read: %q %q", cfg.RabbitMQURL, cfg.JWTSecret)
	}
}
