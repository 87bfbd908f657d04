package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.StateBackend)
	assert.Equal(t, "data.json", cfg.StatePath)
	assert.Equal(t, "tournament_history.json", cfg.HistoryPath)
	assert.Equal(t, "ordered", cfg.PairingStrategy)
	assert.Zero(t, cfg.RandomSeed)
	assert.Equal(t, time.Hour, cfg.ScheduleInterval)
	assert.Equal(t, 60*time.Second, cfg.X.RateLimitBackoff)
	assert.False(t, cfg.X.Enabled())
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PAIRING_STRATEGY", "random")
	t.Setenv("RANDOM_SEED", "1234")
	t.Setenv("X_ACCESS_TOKEN", "token")
	t.Setenv("X_RATE_LIMIT_BACKOFF", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "random", cfg.PairingStrategy)
	assert.Equal(t, uint64(1234), cfg.RandomSeed)
	assert.True(t, cfg.X.Enabled())
	assert.Equal(t, 5*time.Second, cfg.X.RateLimitBackoff)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STATE_PATH=/var/lib/rpscup/state.json\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("STATE_PATH", "")
	os.Unsetenv("STATE_PATH")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rpscup/state.json", cfg.StatePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:         "info",
			StateBackend:     BackendFile,
			PairingStrategy:  "ordered",
			ServerPort:       8080,
			ScheduleInterval: time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "postgres without url", mutate: func(c *Config) { c.StateBackend = BackendPostgres }, wantErr: "DATABASE_URL"},
		{name: "postgres with url", mutate: func(c *Config) {
			c.StateBackend = BackendPostgres
			c.DatabaseURL = "postgres://localhost/rpscup"
		}},
		{name: "unknown backend", mutate: func(c *Config) { c.StateBackend = "redis" }, wantErr: "STATE_BACKEND"},
		{name: "unknown strategy", mutate: func(c *Config) { c.PairingStrategy = "swiss" }, wantErr: "PAIRING_STRATEGY"},
		{name: "bad port", mutate: func(c *Config) { c.ServerPort = 70000 }, wantErr: "SERVER_PORT"},
		{name: "zero interval", mutate: func(c *Config) { c.ScheduleInterval = 0 }, wantErr: "SCHEDULE_INTERVAL"},
		{name: "partial r2", mutate: func(c *Config) { c.R2.AccountID = "acc" }, wantErr: "R2_BUCKET_NAME"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := Config{}
	assert.ErrorContains(t, cfg.ValidateServer(), "JWT_SECRET_KEY")
	cfg.JWTSecretKey = "secret"
	assert.ErrorContains(t, cfg.ValidateServer(), "ADMIN_PASSWORD_HASH")
	cfg.AdminPasswordHash = "$2a$10$hash"
	assert.NoError(t, cfg.ValidateServer())
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}
