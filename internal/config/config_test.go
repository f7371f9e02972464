package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurobloom/screener/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                   ":8080",
		DBPath:                 "test.db",
		LogLevel:               "INFO",
		LogColors:              true,
		ScoringPolicyPath:      "",
		MaintenanceWorkerCount: 2,
		MaintenanceQueueSize:   64,
		SweepIntervalMinutes:   15,
		AttemptTTLMinutes:      120,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "uppercase debug", level: "DEBUG", wantErr: false},
		{name: "uppercase info", level: "INFO", wantErr: false},
		{name: "uppercase warn", level: "WARN", wantErr: false},
		{name: "uppercase error", level: "ERROR", wantErr: false},
		{name: "lowercase accepted", level: "debug", wantErr: false},
		{name: "unknown level", level: "INVALID", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_WorkerAndQueueBounds(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero workers",
			mutate:        func(c *config.Config) { c.MaintenanceWorkerCount = 0 },
			expectedError: "MAINTENANCE_WORKER_COUNT",
		},
		{
			name:          "negative workers",
			mutate:        func(c *config.Config) { c.MaintenanceWorkerCount = -1 },
			expectedError: "MAINTENANCE_WORKER_COUNT",
		},
		{
			name:          "zero queue",
			mutate:        func(c *config.Config) { c.MaintenanceQueueSize = 0 },
			expectedError: "MAINTENANCE_QUEUE_SIZE",
		},
		{
			name:          "zero sweep interval",
			mutate:        func(c *config.Config) { c.SweepIntervalMinutes = 0 },
			expectedError: "SWEEP_INTERVAL_MINUTES",
		},
		{
			name:          "zero attempt ttl",
			mutate:        func(c *config.Config) { c.AttemptTTLMinutes = 0 },
			expectedError: "ATTEMPT_TTL_MINUTES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:                   "",
		DBPath:                 "",
		LogLevel:               "INVALID",
		MaintenanceWorkerCount: 0,
		MaintenanceQueueSize:   0,
		SweepIntervalMinutes:   0,
		AttemptTTLMinutes:      0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "MAINTENANCE_WORKER_COUNT")
	assert.Contains(t, errStr, "MAINTENANCE_QUEUE_SIZE")
	assert.Contains(t, errStr, "SWEEP_INTERVAL_MINUTES")
	assert.Contains(t, errStr, "ATTEMPT_TTL_MINUTES")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("SCORING_POLICY_PATH", "/etc/screener/policy.json")
	t.Setenv("ATTEMPT_TTL_MINUTES", "45")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "/etc/screener/policy.json", cfg.ScoringPolicyPath)
	assert.Equal(t, 45, cfg.AttemptTTLMinutes)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("MAINTENANCE_WORKER_COUNT", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:screener.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.MaintenanceWorkerCount)
	assert.NoError(t, cfg.Validate())
}
