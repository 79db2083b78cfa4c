package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vocabquiz/backend/internal/infrastructure/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_ADDRESS", "SHUTDOWN_TIMEOUT", "DB_DRIVER", "DB_DSN", "LEDGER_NAMESPACE",
		"RESULTS_FORWARD_URL", "RESULTS_FORWARD_TIMEOUT", "FORWARD_WORKERS",
		"TEACHER_PASSWORD_HASH", "JWT_SECRET", "JWT_TTL", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := config.FromEnv()

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "incorrectNote", cfg.LedgerNamespace)
	assert.Empty(t, cfg.ForwardURL)
	assert.Equal(t, 2, cfg.ForwardWorkers)
	assert.Empty(t, cfg.TeacherPasswordHash)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/quiz")
	t.Setenv("LEDGER_NAMESPACE", "notes")
	t.Setenv("RESULTS_FORWARD_URL", "https://example.com/results")
	t.Setenv("RESULTS_FORWARD_TIMEOUT", "2s")
	t.Setenv("FORWARD_WORKERS", "4")
	t.Setenv("TEACHER_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := config.FromEnv()

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/quiz", cfg.DBDSN)
	assert.Equal(t, "notes", cfg.LedgerNamespace)
	assert.Equal(t, "https://example.com/results", cfg.ForwardURL)
	assert.Equal(t, 2*time.Second, cfg.ForwardTimeout)
	assert.Equal(t, 4, cfg.ForwardWorkers)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
