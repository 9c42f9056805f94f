package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Completion defaults.
const (
	DefaultCompletionBaseURL = "https://openrouter.ai/api/v1"
	DefaultCompletionModel   = "agentica-org/deepcoder-14b-preview:free"
	DefaultAnthropicModel    = "claude-3-5-haiku-latest"
)

// Config holds the catalogsearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Completion CompletionConfig `yaml:"completion"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	CORSOrigin      string `yaml:"cors_origin"` // empty disables CORS headers
}

// CatalogConfig holds upstream catalog settings.
type CatalogConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CompletionConfig holds completion provider settings. An empty APIKey
// disables the model path.
type CompletionConfig struct {
	Provider    string  `yaml:"provider"` // openai (default) | anthropic
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature *float32 `yaml:"temperature"` // unset selects 0.2; 0 is greedy decoding
	TimeoutSec  int     `yaml:"timeout_sec"`

	Budget BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds the completion token budget. Counters are persisted
// in the cache when one is configured.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" (default) | "warn"
}

// Enabled reports whether any token cap is set.
func (b *BudgetConfig) Enabled() bool { return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 }

// CacheConfig holds the catalog snapshot cache settings. Empty Addrs
// disables the cache.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	CategorySynonyms   map[string]string `yaml:"category_synonyms"`
	RateLimitPerMinute int               `yaml:"rate_limit_per_minute"` // 0 = unlimited
}

// Enabled reports whether the model path has a credential.
func (c *CompletionConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

// Timeout returns the completion call timeout.
func (c *CompletionConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// Enabled reports whether the cache is configured.
func (c *CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// TTL returns the snapshot lifetime.
func (c *CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

// Timeout returns the per-request upstream timeout.
func (c *CatalogConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// Outside prod, config/config.env and .env are loaded into the process
// environment first; variables already set win.
func Load(env string) (Config, error) {
	if env != "prod" {
		if err := loadDotEnv(filepath.Join(filepath.Dir(findConfigPath(env)), "config.env"), ".env"); err != nil {
			return Config{}, err
		}
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 4000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// must exceed completion.timeout_sec plus the catalog fetch
		c.HTTP.WriteTimeoutSec = 40
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://fakestoreapi.com"
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 10
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = "openai"
	}
	if c.Completion.Model == "" {
		c.Completion.Model = DefaultCompletionModel
		if c.Completion.Provider == "anthropic" {
			c.Completion.Model = DefaultAnthropicModel
		}
	}
	if c.Completion.BaseURL == "" && c.Completion.Provider == "openai" {
		c.Completion.BaseURL = DefaultCompletionBaseURL
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 500
	}
	if c.Completion.Temperature == nil {
		t := float32(0.2)
		c.Completion.Temperature = &t
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = 20
	}
	if c.Completion.Budget.Action == "" {
		c.Completion.Budget.Action = "reject"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Completion.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("completion.provider must be \"openai\" or \"anthropic\", got %q", c.Completion.Provider)
	}
	if t := c.Completion.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("completion.temperature must be between 0 and 2, got %g", *t)
	}
	if b := c.Completion.Budget; b.DailyTokenLimit < 0 || b.MonthlyTokenLimit < 0 {
		return errors.New("completion.budget token limits must not be negative")
	}
	switch c.Completion.Budget.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("completion.budget.action must be \"warn\" or \"reject\", got %q", c.Completion.Budget.Action)
	}
	if c.Search.RateLimitPerMinute < 0 {
		return errors.New("search.rate_limit_per_minute must not be negative")
	}
	for k, v := range c.Search.CategorySynonyms {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return fmt.Errorf("search.category_synonyms: empty entry %q: %q", k, v)
		}
	}
	return nil
}

// loadDotEnv loads the existing files among paths. godotenv.Load does not
// override variables that are already set.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if !fileExists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
