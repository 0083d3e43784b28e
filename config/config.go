package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Sweep    SweepConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN          string
	AdminDSN     string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

// Enabled reports whether the project cache is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type LLMConfig struct {
	Provider string

	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string

	MaxAttempts       int
	RetryBaseDelay    time.Duration
	Timeout           time.Duration
	RequestsPerMinute int
}

// SweepConfig schedules the job that fails projects stuck mid-pipeline.
type SweepConfig struct {
	Schedule   string
	StaleAfter time.Duration
}

// Enabled reports whether the sweep job should be scheduled. STALE_SWEEP_SCHEDULE=off disables it.
func (s SweepConfig) Enabled() bool {
	return s.Schedule != "" && !strings.EqualFold(s.Schedule, "off")
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFile     string
	Version     string
}

// IsProduction reports whether APP_ENV is production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads the configuration from the process environment without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DB_DSN", ""),
			AdminDSN:     getEnv("DB_ADMIN_DSN", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "logogen"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
			TTL: time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		LLM: LLMConfig{
			Provider:          strings.ToLower(getEnv("LLM_PROVIDER", "anthropic")),
			AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:    getEnv("ANTHROPIC_MODEL", ""),
			GeminiAPIKey:      getEnv("GOOGLE_AI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", ""),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:       getEnv("OPENAI_MODEL", ""),
			MaxAttempts:       getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			RetryBaseDelay:    time.Duration(getEnvAsInt("LLM_RETRY_BASE_MS", 1000)) * time.Millisecond,
			Timeout:           time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 180)) * time.Second,
			RequestsPerMinute: getEnvAsInt("LLM_RPM", 0),
		},
		Sweep: SweepConfig{
			Schedule:   getEnv("STALE_SWEEP_SCHEDULE", "@every 5m"),
			StaleAfter: time.Duration(getEnvAsInt("STALE_AFTER_MINUTES", 30)) * time.Minute,
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFile:     getEnv("LOG_FILE", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if err := c.LLM.Validate(); err != nil {
		return err
	}

	if c.Sweep.Enabled() && c.Sweep.StaleAfter <= 0 {
		return fmt.Errorf("STALE_AFTER_MINUTES must be positive")
	}

	if c.Redis.Enabled() && c.Redis.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}

	return nil
}

func (d DatabaseConfig) Validate() error {
	if d.DSN == "" && d.AdminDSN == "" && d.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

func (l LLMConfig) Validate() error {
	if l.MaxAttempts < 1 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1")
	}
	if l.RetryBaseDelay < 0 {
		return fmt.Errorf("LLM_RETRY_BASE_MS must not be negative")
	}
	if l.RequestsPerMinute < 0 {
		return fmt.Errorf("LLM_RPM must not be negative")
	}

	switch l.Provider {
	case "anthropic":
		if l.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
	case "gemini":
		if l.GeminiAPIKey == "" {
			return fmt.Errorf("GOOGLE_AI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case "openai":
		if l.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", l.Provider)
	}
	return nil
}

// APIKey returns the key of the selected provider.
func (l LLMConfig) APIKey() string {
	switch l.Provider {
	case "gemini":
		return l.GeminiAPIKey
	case "openai":
		return l.OpenAIAPIKey
	default:
		return l.AnthropicAPIKey
	}
}

// Model returns the model override of the selected provider, or "".
func (l LLMConfig) Model() string {
	switch l.Provider {
	case "gemini":
		return l.GeminiModel
	case "openai":
		return l.OpenAIModel
	default:
		return l.AnthropicModel
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
