// Package config loads settings from defaults, an optional YAML file and
// CTC_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/JonasKlamroth/ctcscraper/internal/sources/aggregated"
	"github.com/JonasKlamroth/ctcscraper/internal/sources/feed"
)

// EnvConfigFile names the optional YAML file.
const EnvConfigFile = "CTC_CONFIG_FILE"

type Config struct {
	ListenPort      string        `yaml:"listen_port" validate:"required"`       // ex: ":8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`      // ex: 5s
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	PrettyLog       bool          `yaml:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)

	// Sources
	FeedURL         string        `yaml:"feed_url" validate:"required,url"`
	AggregatedURL   string        `yaml:"aggregated_url" validate:"omitempty,url"` // empty disables the source
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0"`       // 0 => manual refresh only

	// Fetching
	FetchTimeout       time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	UserAgent          string        `yaml:"user_agent"`                           // empty => ctcscraper/<version>
	RequestsPerSecond  float64       `yaml:"requests_per_second" validate:"gte=0"` // 0 => unthrottled
	Burst              int           `yaml:"burst" validate:"gte=1"`
	MaxRetries         int           `yaml:"max_retries" validate:"gte=0"`
	RetryInterval      time.Duration `yaml:"retry_interval" validate:"gt=0"`
	ResolvePuzzleNames bool          `yaml:"resolve_puzzle_names"`
	PuzzleFetcher      string        `yaml:"puzzle_fetcher" validate:"oneof=http browser"`

	// Storage
	StoreBackend   string        `yaml:"store_backend" validate:"oneof=file redis badger"`
	StorePath      string        `yaml:"store_path" validate:"required_if=StoreBackend file"`
	BadgerDir      string        `yaml:"badger_dir" validate:"required_if=StoreBackend badger"`
	GCInterval     time.Duration `yaml:"gc_interval" validate:"gte=0"`
	PuzzleCacheTTL time.Duration `yaml:"puzzle_cache_ttl" validate:"gte=0"`

	// Redis
	RedisAddr           string        `yaml:"redis_addr" validate:"required_if=StoreBackend redis"`
	RedisUser           string        `yaml:"redis_user"`
	RedisPassword       string        `yaml:"redis_password"`
	RedisDB             int           `yaml:"redis_db" validate:"gte=0"`
	RedisDT             time.Duration `yaml:"redis_dial_timeout" validate:"gt=0"`
	RedisRT             time.Duration `yaml:"redis_read_timeout" validate:"gt=0"`
	RedisWT             time.Duration `yaml:"redis_write_timeout" validate:"gt=0"`
	RedisMaxWait        time.Duration `yaml:"redis_max_wait" validate:"gt=0"`
	RedisPingTimeout    time.Duration `yaml:"redis_ping_timeout" validate:"gt=0"`
	RedisConnectTimeout time.Duration `yaml:"redis_connect_timeout" validate:"gt=0"`
	RedisRetryInterval  time.Duration `yaml:"redis_retry_interval" validate:"gt=0"`

	// Access restrictions
	AllowedCIDRS        []string `yaml:"allowed_cidrs" validate:"dive,cidr|ip"`
	TrustProxy          bool     `yaml:"trust_proxy"` // true => trust X-Forwarded-For headers
	RefreshBurst        int      `yaml:"refresh_burst" validate:"gte=1"`
	RefreshPerIPPerHour int      `yaml:"refresh_per_ip_per_hour" validate:"gte=1"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		ListenPort:      ":8080",
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
		PrettyLog:       true,

		FeedURL:         feed.DefaultURL,
		AggregatedURL:   aggregated.DefaultURL,
		RefreshInterval: time.Hour,

		FetchTimeout:       15 * time.Second,
		RequestsPerSecond:  8,
		Burst:              8,
		MaxRetries:         2,
		RetryInterval:      500 * time.Millisecond,
		ResolvePuzzleNames: true,
		PuzzleFetcher:      "http",

		StoreBackend:   "file",
		StorePath:      "puzzles.json",
		BadgerDir:      "data/badger",
		GCInterval:     10 * time.Minute,
		PuzzleCacheTTL: 7 * 24 * time.Hour,

		RedisUser:           "default",
		RedisDT:             5 * time.Second,
		RedisRT:             3 * time.Second,
		RedisWT:             3 * time.Second,
		RedisMaxWait:        10 * time.Second,
		RedisPingTimeout:    5 * time.Second,
		RedisConnectTimeout: 30 * time.Second,
		RedisRetryInterval:  2 * time.Second,

		TrustProxy:          true,
		RefreshBurst:        3,
		RefreshPerIPPerHour: 12,
	}
}

// Load builds the configuration. path overrides CTC_CONFIG_FILE when set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	// Server settings
	cfg.ListenPort = getenv("CTC_LISTEN_PORT", cfg.ListenPort)
	cfg.ShutdownTimeout = mustDuration("CTC_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	// Logging
	cfg.LogLevel = strings.ToLower(getenv("CTC_LOG_LEVEL", cfg.LogLevel))
	cfg.PrettyLog = mustBool("CTC_PRETTY_LOG", cfg.PrettyLog)

	// Sources
	cfg.FeedURL = getenv("CTC_FEED_URL", cfg.FeedURL)
	if v, ok := os.LookupEnv("CTC_AGGREGATED_URL"); ok {
		cfg.AggregatedURL = strings.TrimSpace(v)
	}
	cfg.RefreshInterval = mustDuration("CTC_REFRESH_INTERVAL", cfg.RefreshInterval)

	// Fetching
	cfg.FetchTimeout = mustDuration("CTC_FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.UserAgent = getenv("CTC_USER_AGENT", cfg.UserAgent)
	cfg.RequestsPerSecond = getenvFloat("CTC_REQUESTS_PER_SECOND", cfg.RequestsPerSecond)
	cfg.Burst = getenvInt("CTC_BURST", cfg.Burst)
	cfg.MaxRetries = getenvInt("CTC_MAX_RETRIES", cfg.MaxRetries)
	cfg.RetryInterval = mustDuration("CTC_RETRY_INTERVAL", cfg.RetryInterval)
	cfg.ResolvePuzzleNames = mustBool("CTC_RESOLVE_PUZZLE_NAMES", cfg.ResolvePuzzleNames)
	cfg.PuzzleFetcher = strings.ToLower(getenv("CTC_PUZZLE_FETCHER", cfg.PuzzleFetcher))

	// Storage
	cfg.StoreBackend = strings.ToLower(getenv("CTC_STORE_BACKEND", cfg.StoreBackend))
	cfg.StorePath = getenv("CTC_STORE_PATH", cfg.StorePath)
	cfg.BadgerDir = getenv("CTC_BADGER_DIR", cfg.BadgerDir)
	cfg.GCInterval = mustDuration("CTC_GC_INTERVAL", cfg.GCInterval)
	cfg.PuzzleCacheTTL = mustDuration("CTC_PUZZLE_CACHE_TTL", cfg.PuzzleCacheTTL)

	// Redis settings
	cfg.RedisAddr = getenv("CTC_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisUser = getenv("CTC_REDIS_USERNAME", cfg.RedisUser)
	cfg.RedisPassword = getenv("CTC_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getenvInt("CTC_REDIS_DB", cfg.RedisDB)
	cfg.RedisDT = mustDuration("CTC_REDIS_DIAL_TIMEOUT", cfg.RedisDT)
	cfg.RedisRT = mustDuration("CTC_REDIS_READ_TIMEOUT", cfg.RedisRT)
	cfg.RedisWT = mustDuration("CTC_REDIS_WRITE_TIMEOUT", cfg.RedisWT)
	cfg.RedisMaxWait = mustDuration("CTC_REDIS_MAX_WAIT", cfg.RedisMaxWait)
	cfg.RedisPingTimeout = mustDuration("CTC_REDIS_PING_TIMEOUT", cfg.RedisPingTimeout)
	cfg.RedisConnectTimeout = mustDuration("CTC_REDIS_CONNECT_TIMEOUT", cfg.RedisConnectTimeout)
	cfg.RedisRetryInterval = mustDuration("CTC_REDIS_RETRY_INTERVAL", cfg.RedisRetryInterval)

	// Access restrictions
	if v := os.Getenv("CTC_ALLOWED_CIDRS"); v != "" {
		cfg.AllowedCIDRS = splitAndTrim(v)
	}
	cfg.TrustProxy = mustBool("CTC_TRUST_PROXY", cfg.TrustProxy)
	cfg.RefreshBurst = getenvInt("CTC_REFRESH_BURST", cfg.RefreshBurst)
	cfg.RefreshPerIPPerHour = getenvInt("CTC_REFRESH_PER_IP_PER_HOUR", cfg.RefreshPerIPPerHour)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	c.AllowedCIDRS = append([]string(nil), c.AllowedCIDRS...)
	return c
}

// helpers
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
