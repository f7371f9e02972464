package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	LogColors              bool
	ScoringPolicyPath      string
	MaintenanceWorkerCount int
	MaintenanceQueueSize   int
	SweepIntervalMinutes   int
	AttemptTTLMinutes      int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:screener.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		LogColors:              envBoolOr("LOG_COLORS", true),
		ScoringPolicyPath:      envOr("SCORING_POLICY_PATH", ""),
		MaintenanceWorkerCount: envIntOr("MAINTENANCE_WORKER_COUNT", 2),
		MaintenanceQueueSize:   envIntOr("MAINTENANCE_QUEUE_SIZE", 64),
		SweepIntervalMinutes:   envIntOr("SWEEP_INTERVAL_MINUTES", 15),
		AttemptTTLMinutes:      envIntOr("ATTEMPT_TTL_MINUTES", 120),
	}
}

// Validate rejects configurations the server cannot run with. All problems
// are reported at once so operators fix them in one pass.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.MaintenanceWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("MAINTENANCE_WORKER_COUNT must be at least 1, got %d", c.MaintenanceWorkerCount))
	}
	if c.MaintenanceQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("MAINTENANCE_QUEUE_SIZE must be at least 1, got %d", c.MaintenanceQueueSize))
	}
	if c.SweepIntervalMinutes < 1 {
		problems = append(problems, fmt.Sprintf("SWEEP_INTERVAL_MINUTES must be at least 1, got %d", c.SweepIntervalMinutes))
	}
	if c.AttemptTTLMinutes < 1 {
		problems = append(problems, fmt.Sprintf("ATTEMPT_TTL_MINUTES must be at least 1, got %d", c.AttemptTTLMinutes))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
