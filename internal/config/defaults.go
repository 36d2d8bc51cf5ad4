package config

import "time"

// Default oracle settings. The endpoint must be OpenAI-compatible; the
// defaults point at OpenAI itself but any compatible gateway works.
const (
	DefaultOracleBaseURL = "https://api.openai.com/v1"
	DefaultOracleModel   = "gpt-4o-mini"
	DefaultAPIKeyEnv     = "PROCURA_ORACLE_API_KEY"
	DefaultOracleTimeout = 15 * time.Second
	DefaultMaxRetries    = 2
	DefaultBackoff       = time.Second
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1024
)

// Default engine settings.
const (
	DefaultConcurrency  = 3
	DefaultNominalUsage = 5
)

// DefaultMetricsPort is where the optional Prometheus listener binds.
const DefaultMetricsPort = 9090
