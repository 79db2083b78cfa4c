package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Storage
	DBDriver        string // "sqlite" or "postgres"
	DBDSN           string // file path for sqlite, connection URL for postgres
	LedgerNamespace string // blob key the mistake ledger is saved under

	// Result forwarding; empty URL disables it
	ForwardURL     string
	ForwardTimeout time.Duration
	ForwardWorkers int

	// Teacher access; empty hash leaves teacher routes open
	TeacherPasswordHash string
	JWTSecret           string
	JWTTTL              time.Duration

	CORSOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		ServerAddress:       getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBDriver:            getenvDefault("DB_DRIVER", "sqlite"),
		DBDSN:               getenvDefault("DB_DSN", "vocabquiz.db"),
		LedgerNamespace:     getenvDefault("LEDGER_NAMESPACE", "incorrectNote"),
		ForwardURL:          os.Getenv("RESULTS_FORWARD_URL"),
		ForwardTimeout:      getDuration("RESULTS_FORWARD_TIMEOUT", 10*time.Second),
		ForwardWorkers:      getInt("FORWARD_WORKERS", 2),
		TeacherPasswordHash: os.Getenv("TEACHER_PASSWORD_HASH"),
		JWTTTL:              getDuration("JWT_TTL", 12*time.Hour),
		CORSOrigins:         getCSV("CORS_ORIGINS", []string{"*"}),
	}
	if cfg.TeacherPasswordHash != "" {
		cfg.JWTSecret = mustGetenv("JWT_SECRET")
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getCSV(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
