// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Chat       ChatConfig       `mapstructure:"chat"`
}

// ServerConfig stores HTTP listener details.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig stores the embedded database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig stores token verification settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// OpenRouterConfig stores the completion provider connection details.
type OpenRouterConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChatConfig tunes the conversation orchestrator.
type ChatConfig struct {
	HistoryLimit int     `mapstructure:"history_limit"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

// LoadConfig reads configuration from file or environment variables. A missing
// config file is not an error; defaults and environment variables apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/taskmind")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/taskmind.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("openrouter.timeout", "60s")
	v.SetDefault("chat.history_limit", 50)
	v.SetDefault("chat.temperature", 0.7)
	v.SetDefault("chat.max_tokens", 1000)

	v.AutomaticEnv()
	// Replace dots with underscores in env var names e.g. openrouter.api_key
	// becomes OPENROUTER_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}
