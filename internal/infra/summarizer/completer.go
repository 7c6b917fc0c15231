// Package summarizer provides the summarization gateway used by the recursive
// summarizer. It includes adapters for Claude (Anthropic) and OpenAI APIs, a
// local echo provider, and the reliability wrapper (timeout, rate limiting,
// circuit breaker, optional retry) with structured logging and Prometheus metrics.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docdiff/internal/config"
)

var (
	// ErrCircuitOpen is returned when the provider circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("summarization provider unavailable: circuit breaker open")

	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("summarization provider returned empty response")

	// ErrUnknownProvider is returned by NewCompleter for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown summarization provider")
)

// Request is one completion request sent to a provider.
type Request struct {
	// System is the system prompt.
	System string
	// Instruction precedes Text in the user message.
	Instruction string
	// Text is the material to condense.
	Text string
	// MaxTokens caps the response size.
	MaxTokens int
	// Temperature is passed through to the provider as is.
	Temperature float64
}

// UserMessage returns the user turn sent to chat-style providers.
func (r Request) UserMessage() string {
	return r.Instruction + r.Text
}

// Completer is a single provider backend. Implementations make exactly one
// upstream request per call and never retry internally.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// NewCompleter builds the completer for provider. An empty model selects the
// provider's default model.
func NewCompleter(provider, model string, cfg config.GatewayConfig) (Completer, error) {
	switch strings.ToLower(provider) {
	case config.ProviderClaude:
		return NewClaude(ClaudeConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   model,
		}), nil
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   model,
		}), nil
	case config.ProviderEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// NewCompleterFromConfig builds the primary completer and, when configured,
// wraps it with a fallback provider.
func NewCompleterFromConfig(cfg config.GatewayConfig) (Completer, error) {
	primary, err := NewCompleter(cfg.Provider, cfg.Model, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.FallbackProvider == "" {
		return primary, nil
	}

	secondary, err := NewCompleter(cfg.FallbackProvider, cfg.FallbackModel, cfg)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewFallback(primary, secondary), nil
}
