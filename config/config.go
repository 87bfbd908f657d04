package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds every setting of the bot. Values come from the environment,
// optionally seeded from a .env file.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StateBackend string `env:"STATE_BACKEND" envDefault:"file"`
	StatePath    string `env:"STATE_PATH" envDefault:"data.json"`
	HistoryPath  string `env:"HISTORY_PATH" envDefault:"tournament_history.json"`
	CatalogPath  string `env:"CATALOG_PATH" envDefault:"full_countries.json"`
	DatabaseURL  string `env:"DATABASE_URL"`

	PairingStrategy string `env:"PAIRING_STRATEGY" envDefault:"ordered"`
	RandomSeed      uint64 `env:"RANDOM_SEED" envDefault:"0"`

	MatchImagePath string `env:"MATCH_IMAGE_PATH" envDefault:"current_match.png"`
	BattleIconPath string `env:"BATTLE_ICON_PATH" envDefault:"assets/spade_incrociate.png"`

	X  XConfig  `envPrefix:"X_"`
	R2 R2Config `envPrefix:"R2_"`

	ServerPort        int           `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecretKey      string        `env:"JWT_SECRET_KEY"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	ScheduleInterval  time.Duration `env:"SCHEDULE_INTERVAL" envDefault:"1h"`

	ScrapeURL string `env:"SCRAPE_URL" envDefault:"https://en.wikipedia.org/wiki/List_of_national_flags_of_sovereign_states"`
	FlagsDir  string `env:"FLAGS_DIR" envDefault:"assets/flags"`
}

// XConfig configures the X (Twitter) API v2 client. Posting is disabled when no
// token is configured.
type XConfig struct {
	AccessToken      string        `env:"ACCESS_TOKEN"`
	RefreshToken     string        `env:"REFRESH_TOKEN"`
	ClientID         string        `env:"CLIENT_ID"`
	ClientSecret     string        `env:"CLIENT_SECRET"`
	APIBaseURL       string        `env:"API_BASE_URL" envDefault:"https://api.x.com"`
	RateLimitBackoff time.Duration `env:"RATE_LIMIT_BACKOFF" envDefault:"60s"`
	MinPostInterval  time.Duration `env:"MIN_POST_INTERVAL" envDefault:"0s"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

func (x XConfig) Enabled() bool {
	return x.AccessToken != "" || x.RefreshToken != ""
}

// R2Config configures optional archiving of match images to Cloudflare R2.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BucketName      string `env:"BUCKET_NAME"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

func (r R2Config) Enabled() bool {
	return r.AccountID != ""
}

// Load reads configuration from the environment. Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StateBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STATE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.StateBackend))
	}

	switch c.PairingStrategy {
	case "ordered", "random":
	default:
		errs = append(errs, fmt.Errorf("PAIRING_STRATEGY must be \"ordered\" or \"random\", got %q", c.PairingStrategy))
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.ScheduleInterval <= 0 {
		errs = append(errs, fmt.Errorf("SCHEDULE_INTERVAL must be positive, got %s", c.ScheduleInterval))
	}
	if c.R2.Enabled() && (c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.BucketName == "") {
		errs = append(errs, errors.New("R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME are required when R2_ACCOUNT_ID is set"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH environment variable is not set")
	}
	return nil
}

func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
