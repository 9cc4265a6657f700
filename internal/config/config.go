package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Store     StoreConfig     `mapstructure:"store"`
	Honeypot  HoneypotConfig  `mapstructure:"honeypot"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// StoreConfig selects the interaction-record store backend.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"` // "file" or "postgres"
	FilePath string `mapstructure:"file_path"`
}

// HoneypotConfig controls the decoy conversation engine.
type HoneypotConfig struct {
	Provider          string        `mapstructure:"provider"` // "rule_based" or "generative"
	SimulateTyping    bool          `mapstructure:"simulate_typing"`
	MaxTypingDelay    time.Duration `mapstructure:"max_typing_delay"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	StatsCacheEnabled bool          `mapstructure:"stats_cache_enabled"`
}

// LLMConfig holds settings for the generative reply backend.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // "claude" or "openai"
	ClaudeAPIKey string        `mapstructure:"claude_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fraudshield-lab")
	}

	v.SetEnvPrefix("FRAUDSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.host", "FRAUDSHIELD_DATABASE_HOST")
	v.BindEnv("database.port", "FRAUDSHIELD_DATABASE_PORT")
	v.BindEnv("database.user", "FRAUDSHIELD_DATABASE_USER")
	v.BindEnv("database.password", "FRAUDSHIELD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "FRAUDSHIELD_DATABASE_DBNAME")
	v.BindEnv("redis.enabled", "FRAUDSHIELD_REDIS_ENABLED")
	v.BindEnv("redis.host", "FRAUDSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "FRAUDSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "FRAUDSHIELD_REDIS_PASSWORD")
	v.BindEnv("nats.enabled", "FRAUDSHIELD_NATS_ENABLED")
	v.BindEnv("auth.api_key", "FRAUDSHIELD_AUTH_API_KEY")
	v.BindEnv("llm.claude_api_key", "FRAUDSHIELD_LLM_CLAUDE_API_KEY")
	v.BindEnv("llm.openai_api_key", "FRAUDSHIELD_LLM_OPENAI_API_KEY")
	v.BindEnv("app.environment", "FRAUDSHIELD_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate checks settings that must be resolved before the service
// accepts traffic. Failures here are fatal at startup.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", "file", "postgres":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Honeypot.Provider {
	case "", "rule_based":
	case "generative":
		if c.LLM.Provider == "claude" && c.LLM.ClaudeAPIKey == "" {
			return fmt.Errorf("honeypot provider is generative but llm.claude_api_key is not set")
		}
		if c.LLM.Provider == "openai" && c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("honeypot provider is generative but llm.openai_api_key is not set")
		}
		if c.LLM.Provider != "claude" && c.LLM.Provider != "openai" {
			return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown honeypot provider %q", c.Honeypot.Provider)
	}

	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth is enabled but auth.api_key is not set")
	}

	return nil
}
