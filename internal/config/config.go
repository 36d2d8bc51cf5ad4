// Package config loads engine configuration from file, environment,
// and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level procura configuration.
type Config struct {
	Oracle  Oracle  `mapstructure:"oracle"`
	Engine  Engine  `mapstructure:"engine"`
	Metrics Metrics `mapstructure:"metrics"`
	Logging Logging `mapstructure:"logging"`
}

// Oracle configures the external text-generation service. The key is
// never stored in the config file; it is read from the environment
// variable named by APIKeyEnv.
type Oracle struct {
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Backoff     time.Duration `mapstructure:"backoff"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// Engine configures batch processing behavior.
type Engine struct {
	Concurrency  int     `mapstructure:"concurrency"`
	NominalUsage float64 `mapstructure:"nominal_usage"`
}

// Metrics configures the optional Prometheus listener.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Logging configures structured log output.
type Logging struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// APIKey resolves the oracle credential from the environment.
func (o Oracle) APIKey() string {
	return os.Getenv(o.APIKeyEnv)
}

// Load reads configuration from the given path (or the default
// locations) and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("oracle.base_url", DefaultOracleBaseURL)
	v.SetDefault("oracle.model", DefaultOracleModel)
	v.SetDefault("oracle.api_key_env", DefaultAPIKeyEnv)
	v.SetDefault("oracle.timeout", DefaultOracleTimeout)
	v.SetDefault("oracle.max_retries", DefaultMaxRetries)
	v.SetDefault("oracle.backoff", DefaultBackoff)
	v.SetDefault("oracle.temperature", DefaultTemperature)
	v.SetDefault("oracle.max_tokens", DefaultMaxTokens)
	v.SetDefault("engine.concurrency", DefaultConcurrency)
	v.SetDefault("engine.nominal_usage", DefaultNominalUsage)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", DefaultMetricsPort)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("procura")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/procura")
		}
	}

	v.SetEnvPrefix("PROCURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Missing default config is fine; an explicit path must exist.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
