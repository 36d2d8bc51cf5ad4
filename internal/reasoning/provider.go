package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrPermission marks an authorization or credential failure from the
// oracle. Permission failures are never retried.
var ErrPermission = errors.New("oracle permission denied")

// Provider is the capability interface for the external text-generation
// oracle: one prompt in, one free-text response out. Tests substitute a
// stub; production wires an OpenAI-compatible endpoint.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OracleProvider implements Provider over any OpenAI-compatible API
// via langchaingo.
type OracleProvider struct {
	client      *openai.LLM
	model       string
	temperature float64
	maxTokens   int
}

// OracleConfig holds the connection settings for the oracle endpoint.
// The engine receives these from configuration; it never discovers them.
type OracleConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewOracleProvider creates a provider for the configured endpoint.
func NewOracleProvider(cfg OracleConfig) (*OracleProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("oracle API key is required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &OracleProvider{
		client:      client,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends a single prompt and returns the raw response text.
func (p *OracleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := p.client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	},
		llms.WithTemperature(p.temperature),
		llms.WithMaxTokens(p.maxTokens),
	)
	if err != nil {
		if looksLikePermissionError(err) {
			return "", fmt.Errorf("%w: %v", ErrPermission, err)
		}
		return "", fmt.Errorf("oracle completion failed: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return "", errors.New("empty response from oracle")
	}
	return response.Choices[0].Content, nil
}

// IsPermissionError reports whether an oracle error represents an
// authorization failure rather than a transient fault.
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrPermission) || looksLikePermissionError(err)
}

func looksLikePermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"401", "403", "unauthorized", "forbidden", "permission", "invalid api key", "incorrect api key"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
