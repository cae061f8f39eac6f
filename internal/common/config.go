package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	LLM         LLMConfig       `toml:"llm"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	Price       PriceConfig     `toml:"price"`
	EODHD       EODHDConfig     `toml:"eodhd"`
	Session     SessionConfig   `toml:"session"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	WebSocket   WebSocketConfig `toml:"websocket"`
	MCP         MCPConfig       `toml:"mcp"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Directory holding the badger files
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete the database before opening it
	WatchlistSlot  string `toml:"watchlist_slot"`   // Named slot holding the serialized watchlist
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "text" or "json"
	Output     []string `toml:"output"`      // "stdout", "console", "file"
	TimeFormat string   `toml:"time_format"` // Go time layout for log lines
	FileName   string   `toml:"file_name"`   // Log file name inside the logs directory
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the provider used for insight generation
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "gemini-3-flash-preview"
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // Minimum spacing between retried calls
	MaxRetries  int     `toml:"max_retries"` // Retries on rate-limit responses
	Temperature float32 `toml:"temperature"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// PriceProvider names the collaborator used for current price lookups
type PriceProvider string

const (
	// PriceProviderGemini asks Gemini with Google Search grounding
	PriceProviderGemini PriceProvider = "gemini"
	// PriceProviderEODHD queries the EODHD real-time endpoint
	PriceProviderEODHD PriceProvider = "eodhd"
)

type PriceConfig struct {
	Provider PriceProvider `toml:"provider"` // "gemini" or "eodhd" (default: "gemini")
	Market   string        `toml:"market"`   // Market named in the lookup prompt (default: "Indonesia (IDX)")
}

// EODHDConfig contains EODHD market data API configuration
type EODHDConfig struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	Exchange  string  `toml:"exchange"`   // EODHD exchange suffix (default: "JK")
	RateLimit float64 `toml:"rate_limit"` // Requests per second
	Timeout   string  `toml:"timeout"`
}

// SessionConfig bounds the asynchronous collaborator calls of a session
type SessionConfig struct {
	InsightTimeout string `toml:"insight_timeout"` // default: "60s"
	PriceTimeout   string `toml:"price_timeout"`   // default: "30s"
}

// SchedulerConfig controls background maintenance jobs
type SchedulerConfig struct {
	Enabled    bool    `toml:"enabled"`
	GCSchedule string  `toml:"gc_schedule"`      // cron spec for badger value-log GC
	GCRatio    float64 `toml:"gc_discard_ratio"` // discard ratio passed to RunValueLogGC
}

type WebSocketConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"` // empty allows all
	PingInterval   string   `toml:"ping_interval"`
}

type MCPConfig struct {
	Name              string `toml:"name"`
	EnableLLM         bool   `toml:"enable_llm"` // expose analyze_stock and lookup_price tools
	LogLevel          string `toml:"log_level"`
	ReadOnlyWatchlist bool   `toml:"read_only_watchlist"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8086,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:          "./data/bosbiss",
				WatchlistSlot: "bosbissWatchlist",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
			FileName:   "bosbiss.log",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-3-flash-preview",
			Timeout:     "60s",
			RateLimit:   "4s",
			MaxRetries:  3,
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-4-5",
			MaxTokens:   1024,
			Timeout:     "60s",
			Temperature: 0.7,
		},
		Price: PriceConfig{
			Provider: PriceProviderGemini,
			Market:   "Indonesia (IDX)",
		},
		EODHD: EODHDConfig{
			BaseURL:   "https://eodhd.com/api",
			Exchange:  "JK",
			RateLimit: 5,
			Timeout:   "30s",
		},
		Session: SessionConfig{
			InsightTimeout: "60s",
			PriceTimeout:   "30s",
		},
		Scheduler: SchedulerConfig{
			Enabled:    true,
			GCSchedule: "@every 1h",
			GCRatio:    0.5,
		},
		WebSocket: WebSocketConfig{
			PingInterval: "30s",
		},
		MCP: MCPConfig{
			Name:      "bosbiss",
			EnableLLM: true,
			LogLevel:  "warn",
		},
	}
}

// LoadFromFiles loads configuration from multiple TOML files.
// Priority: defaults -> files (in order) -> .env -> environment variables.
// CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Later files override earlier ones
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A missing .env is normal outside development
	_ = godotenv.Load()

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BOSBISS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("BOSBISS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BOSBISS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage
	if badgerPath := os.Getenv("BOSBISS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reset := os.Getenv("BOSBISS_BADGER_RESET_ON_STARTUP"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = b
		}
	}

	// Logging
	if level := os.Getenv("BOSBISS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("BOSBISS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("BOSBISS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM
	if provider := os.Getenv("BOSBISS_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if apiKey := os.Getenv("BOSBISS_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("BOSBISS_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if apiKey := os.Getenv("BOSBISS_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("BOSBISS_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Price lookup
	if provider := os.Getenv("BOSBISS_PRICE_PROVIDER"); provider != "" {
		config.Price.Provider = PriceProvider(strings.ToLower(provider))
	}
	if apiKey := os.Getenv("BOSBISS_EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	}
	if exchange := os.Getenv("BOSBISS_EODHD_EXCHANGE"); exchange != "" {
		config.EODHD.Exchange = exchange
	}

	// Session
	if timeout := os.Getenv("BOSBISS_INSIGHT_TIMEOUT"); timeout != "" {
		config.Session.InsightTimeout = timeout
	}
	if timeout := os.Getenv("BOSBISS_PRICE_TIMEOUT"); timeout != "" {
		config.Session.PriceTimeout = timeout
	}

	// Scheduler
	if enabled := os.Getenv("BOSBISS_SCHEDULER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = b
		}
	}
	if schedule := os.Getenv("BOSBISS_GC_SCHEDULE"); schedule != "" {
		config.Scheduler.GCSchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that would otherwise fail deep inside a service
func (c *Config) Validate() error {
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("invalid llm.default_provider %q: must be %q or %q", c.LLM.DefaultProvider, LLMProviderGemini, LLMProviderClaude)
	}

	switch c.Price.Provider {
	case PriceProviderGemini, PriceProviderEODHD:
	default:
		return fmt.Errorf("invalid price.provider %q: must be %q or %q", c.Price.Provider, PriceProviderGemini, PriceProviderEODHD)
	}

	for name, value := range map[string]string{
		"gemini.timeout":          c.Gemini.Timeout,
		"gemini.rate_limit":       c.Gemini.RateLimit,
		"claude.timeout":          c.Claude.Timeout,
		"eodhd.timeout":           c.EODHD.Timeout,
		"session.insight_timeout": c.Session.InsightTimeout,
		"session.price_timeout":   c.Session.PriceTimeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Scheduler.Enabled {
		if err := ValidateSchedule(c.Scheduler.GCSchedule); err != nil {
			return fmt.Errorf("invalid scheduler.gc_schedule: %w", err)
		}
	}

	return nil
}

// ValidateSchedule checks a cron spec (standard 5-field or descriptor such as "@every 1h")
func ValidateSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("schedule is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ResolveAPIKey returns the API key for a provider.
// Order: dedicated environment variables, then the config value.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"BOSBISS_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"},
		"claude_api_key": {"BOSBISS_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"eodhd_api_key":  {"BOSBISS_EODHD_API_KEY", "EODHD_API_KEY"},
	}

	for _, envVarName := range keyToEnvMapping[name] {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// ParseDurationOr parses a duration string, returning fallback when empty or invalid
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
