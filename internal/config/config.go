package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Auth       AuthConfig       `koanf:"auth"`
	Lockout    LockoutConfig    `koanf:"lockout"`
	Redis      RedisConfig      `koanf:"redis"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Generator  GeneratorConfig  `koanf:"generator"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Logging    LoggingConfig    `koanf:"logging"`
	Events     EventsConfig     `koanf:"events"`
}

type ServerConfig struct {
	Port          string   `koanf:"port"`
	Mode          string   `koanf:"mode"`
	CORSOrigins   []string `koanf:"cors_origins"`
	PublicBaseURL string   `koanf:"public_base_url"`
}

type DatabaseConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
	AdminEmails   []string      `koanf:"admin_emails"`
}

// LockoutConfig drives the failed-login guard. The memory backend keeps state per process.
type LockoutConfig struct {
	Backend       string        `koanf:"backend"`
	MaxAttempts   int           `koanf:"max_attempts"`
	Window        time.Duration `koanf:"window"`
	BlockDuration time.Duration `koanf:"block_duration"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type RateLimitConfig struct {
	AuthRequests       int           `koanf:"auth_requests"`
	AuthWindow         time.Duration `koanf:"auth_window"`
	GenerationRequests int           `koanf:"generation_requests"`
	GenerationWindow   time.Duration `koanf:"generation_window"`
}

type GeneratorConfig struct {
	Provider     string        `koanf:"provider"`
	GroqAPIKey   string        `koanf:"groq_api_key"`
	OpenAIAPIKey string        `koanf:"openai_api_key"`
	GeminiAPIKey string        `koanf:"gemini_api_key"`
	Model        string        `koanf:"model"`
	BaseURL      string        `koanf:"base_url"`
	Timeout      time.Duration `koanf:"timeout"`
}

type EmbeddingsConfig struct {
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"api_key"`
	Model    string `koanf:"model"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type EventsConfig struct {
	BufferSize int64 `koanf:"buffer_size"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:          "8080",
			Mode:          "release",
			CORSOrigins:   []string{"http://localhost:5173"},
			PublicBaseURL: "http://localhost:5173",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 20,
			MaxIdleConns: 5,
			AutoMigrate:  true,
		},
		Auth: AuthConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Lockout: LockoutConfig{
			Backend:       "memory",
			MaxAttempts:   5,
			Window:        15 * time.Minute,
			BlockDuration: 15 * time.Minute,
			SweepInterval: time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		RateLimit: RateLimitConfig{
			AuthRequests:       5,
			AuthWindow:         15 * time.Minute,
			GenerationRequests: 10,
			GenerationWindow:   time.Hour,
		},
		Generator: GeneratorConfig{
			Provider: "groq",
			Model:    "llama-3.3-70b-versatile",
			BaseURL:  "https://api.groq.com/openai/v1",
			Timeout:  60 * time.Second,
		},
		Embeddings: EmbeddingsConfig{
			Provider: "hash",
			Model:    "text-embedding-3-small",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
	}
}

// Load layers defaults, an optional YAML file (CONFIG_FILE) and the environment, in that order.
// A .env file in the working directory is read into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, key := range []string{"server.cors_origins", "auth.admin_emails"} {
		if raw, ok := k.Get(key).(string); ok {
			if err := k.Set(key, splitList(raw)); err != nil {
				return nil, fmt.Errorf("failed to split %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envMappings = map[string]string{
	"port":                    "server.port",
	"gin_mode":                "server.mode",
	"cors_origins":            "server.cors_origins",
	"frontend_url":            "server.public_base_url",
	"postgres_url":            "database.url",
	"database_url":            "database.url",
	"db_max_open_conns":       "database.max_open_conns",
	"db_max_idle_conns":       "database.max_idle_conns",
	"db_auto_migrate":         "database.auto_migrate",
	"jwt_secret":              "auth.jwt_secret",
	"jwt_refresh_secret":      "auth.refresh_secret",
	"jwt_access_ttl":          "auth.access_ttl",
	"jwt_refresh_ttl":         "auth.refresh_ttl",
	"admin_emails":            "auth.admin_emails",
	"lockout_backend":         "lockout.backend",
	"lockout_max_attempts":    "lockout.max_attempts",
	"lockout_window":          "lockout.window",
	"lockout_block_duration":  "lockout.block_duration",
	"lockout_sweep_interval":  "lockout.sweep_interval",
	"redis_addr":              "redis.addr",
	"redis_password":          "redis.password",
	"redis_db":                "redis.db",
	"ratelimit_auth_requests": "ratelimit.auth_requests",
	"ratelimit_auth_window":   "ratelimit.auth_window",
	"ratelimit_ai_requests":   "ratelimit.generation_requests",
	"ratelimit_ai_window":     "ratelimit.generation_window",
	"ai_provider":             "generator.provider",
	"groq_api_key":            "generator.groq_api_key",
	"openai_api_key":          "generator.openai_api_key",
	"gemini_api_key":          "generator.gemini_api_key",
	"ai_model":                "generator.model",
	"ai_base_url":             "generator.base_url",
	"ai_timeout":              "generator.timeout",
	"embedding_provider":      "embeddings.provider",
	"embedding_api_key":       "embeddings.api_key",
	"embedding_model":         "embeddings.model",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"events_buffer_size":      "events.buffer_size",
}

// envTransformFunc maps known environment variables onto config paths and drops the rest,
// so unrelated variables such as PATH never reach koanf.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if c.Auth.RefreshSecret == "" {
		c.Auth.RefreshSecret = c.Auth.JWTSecret
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token ttls must be positive"))
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}

	switch c.Lockout.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("lockout.backend must be memory or redis, got %q", c.Lockout.Backend))
	}
	if c.Lockout.MaxAttempts <= 0 || c.Lockout.Window <= 0 || c.Lockout.BlockDuration <= 0 {
		errs = append(errs, errors.New("lockout thresholds must be positive"))
	}
	if c.Lockout.SweepInterval <= 0 {
		c.Lockout.SweepInterval = time.Minute
	}

	if c.RateLimit.AuthRequests <= 0 || c.RateLimit.GenerationRequests <= 0 {
		errs = append(errs, errors.New("rate limit request counts must be positive"))
	}

	switch strings.ToLower(c.Generator.Provider) {
	case "groq", "openai", "gemini", "mock":
	default:
		errs = append(errs, fmt.Errorf("generator.provider must be groq, openai, gemini or mock, got %q", c.Generator.Provider))
	}

	switch strings.ToLower(c.Embeddings.Provider) {
	case "openai", "hash":
	default:
		errs = append(errs, fmt.Errorf("embeddings.provider must be openai or hash, got %q", c.Embeddings.Provider))
	}

	return errors.Join(errs...)
}

// GeneratorAPIKey returns the key of the configured provider, empty when none is set.
func (c *Config) GeneratorAPIKey() string {
	switch strings.ToLower(c.Generator.Provider) {
	case "groq":
		return c.Generator.GroqAPIKey
	case "openai":
		return c.Generator.OpenAIAPIKey
	case "gemini":
		return c.Generator.GeminiAPIKey
	}
	return ""
}
