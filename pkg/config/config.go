// Package config loads and validates drillgo configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Oracle configuration
	Oracle OracleConfig `yaml:"oracle"`

	// Leaderboard persistence configuration
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`

	// Metrics server configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configuration
	Tracing TracingConfig `yaml:"tracing"`
}

// OracleConfig holds teacher oracle configuration
type OracleConfig struct {
	Provider     string  `yaml:"provider"` // openai, gemini, vertex, mock
	Model        string  `yaml:"model"`
	APIKey       string  `yaml:"api_key"`
	BaseURL      string  `yaml:"base_url"`
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`

	// Client-side rate limit; zero disables it
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LeaderboardConfig holds leaderboard persistence configuration
type LeaderboardConfig struct {
	Backend string `yaml:"backend"` // file, redis, firestore

	// File backend
	Path string `yaml:"path"`

	// Redis backend
	Redis RedisConfig `yaml:"redis"`

	// Firestore backend
	Firestore FirestoreConfig `yaml:"firestore"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// FirestoreConfig holds Firestore connection settings
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	Collection      string `yaml:"collection"`
	CredentialsFile string `yaml:"credentials_file"`
}

// MetricsConfig holds metrics server settings
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// TracingConfig holds tracing settings
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // otlp, stdout, none
	Endpoint string `yaml:"endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = "openai"
	}
	if c.Oracle.Temperature == 0 {
		c.Oracle.Temperature = 0.7
	}
	if c.Oracle.MaxTokens == 0 {
		c.Oracle.MaxTokens = 1000
	}
	if c.Leaderboard.Backend == "" {
		c.Leaderboard.Backend = "file"
	}
	if c.Leaderboard.Redis.Key == "" {
		c.Leaderboard.Redis.Key = "drillgo:leaderboard"
	}
	if c.Leaderboard.Firestore.Collection == "" {
		c.Leaderboard.Firestore.Collection = "drillgo"
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "none"
	}
}

// applyEnv fills credentials from the environment when the file left
// them empty.
func (c *Config) applyEnv() {
	if c.Oracle.APIKey == "" {
		switch c.Oracle.Provider {
		case "openai":
			c.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			c.Oracle.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
	if c.Leaderboard.Firestore.ProjectID == "" {
		c.Leaderboard.Firestore.ProjectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if c.Leaderboard.Firestore.CredentialsFile == "" {
		c.Leaderboard.Firestore.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.Leaderboard.Redis.Addr == "" {
		c.Leaderboard.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Oracle.Provider {
	case "openai", "gemini", "vertex", "mock":
	default:
		return fmt.Errorf("unknown oracle provider: %s", c.Oracle.Provider)
	}

	switch c.Leaderboard.Backend {
	case "file":
	case "redis":
		if c.Leaderboard.Redis.Addr == "" {
			return fmt.Errorf("redis backend requires an address")
		}
	case "firestore":
		if c.Leaderboard.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore backend requires a project ID")
		}
	default:
		return fmt.Errorf("unknown leaderboard backend: %s", c.Leaderboard.Backend)
	}

	if c.Oracle.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}

	return nil
}
