// Package config loads the configuration object shared by the summarizer,
// the summarization gateway and the bullet formatter.
//
// Values are resolved in three layers: compiled defaults, an optional YAML
// file, then environment variables. Nothing is kept in package state; callers
// pass the resulting *Config into constructors.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Supported summarization providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderEcho   = "echo"
)

// Supported bullet orderings.
const (
	OrderStable = "stable"
	OrderSet    = "set"
)

// DefaultFallbackMarker replaces a failed final-pass summary.
const DefaultFallbackMarker = "Final summary process failed."

// Config is the complete run configuration.
type Config struct {
	Summary        SummaryConfig        `yaml:"summary"`
	Gateway        GatewayConfig        `yaml:"gateway"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Bullets        BulletConfig         `yaml:"bullets"`
	Fetch          FetchConfig          `yaml:"fetch"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// SummaryConfig controls the two-pass recursive summarizer.
type SummaryConfig struct {
	// ChunkSizePass1 is the chunk length in characters for the first pass. Default: 200
	ChunkSizePass1 int `yaml:"chunk_size_pass1" env:"SUMMARY_CHUNK_SIZE_PASS1"`
	// ChunkSizePass2 is the chunk length in characters for the second pass. Default: 16000
	ChunkSizePass2 int `yaml:"chunk_size_pass2" env:"SUMMARY_CHUNK_SIZE_PASS2"`
	// WordCountThreshold triggers the second pass when the combined first-pass
	// summary has more words than this. Default: 16000
	WordCountThreshold int `yaml:"word_count_threshold" env:"SUMMARY_WORD_COUNT_THRESHOLD"`
	// MaxOutputTokensPass1 caps each first-pass response. Default: 300
	MaxOutputTokensPass1 int `yaml:"max_output_tokens_pass1" env:"SUMMARY_MAX_OUTPUT_TOKENS_PASS1"`
	// MaxOutputTokensPass2 caps each second-pass response. Default: 1024
	MaxOutputTokensPass2 int `yaml:"max_output_tokens_pass2" env:"SUMMARY_MAX_OUTPUT_TOKENS_PASS2"`
	// FallbackMarker is emitted in place of a failed second-pass chunk.
	FallbackMarker string `yaml:"fallback_marker" env:"SUMMARY_FALLBACK_MARKER"`
	// Concurrency bounds parallel gateway calls within a pass. Default: 1 (sequential)
	Concurrency int `yaml:"concurrency" env:"SUMMARY_CONCURRENCY"`
}

// GatewayConfig selects and tunes the summarization provider.
type GatewayConfig struct {
	// Provider is one of "openai", "claude" or "echo". Default: "openai"
	Provider string `yaml:"provider" env:"SUMMARIZER_PROVIDER"`
	// Model overrides the provider's default model.
	Model string `yaml:"model" env:"SUMMARIZER_MODEL"`
	// FallbackProvider is tried when the primary provider fails. Empty disables it.
	FallbackProvider string `yaml:"fallback_provider" env:"SUMMARIZER_FALLBACK_PROVIDER"`
	// FallbackModel overrides the fallback provider's default model.
	FallbackModel string `yaml:"fallback_model" env:"SUMMARIZER_FALLBACK_MODEL"`
	// Temperature is passed through to the provider. Default: 1.0
	Temperature float64 `yaml:"temperature" env:"SUMMARIZER_TEMPERATURE"`
	// Timeout bounds a single gateway call. Default: 60s
	Timeout time.Duration `yaml:"timeout" env:"SUMMARIZER_TIMEOUT"`
	// MaxAttempts is the number of tries per call. Default: 1 (single-shot)
	MaxAttempts int `yaml:"max_attempts" env:"SUMMARIZER_MAX_ATTEMPTS"`
	// RetryInitialDelay is the first backoff delay when MaxAttempts > 1. Default: 2s
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay" env:"SUMMARIZER_RETRY_INITIAL_DELAY"`
	// RateLimit is the sustained requests per second. 0 disables pacing.
	RateLimit float64 `yaml:"rate_limit" env:"SUMMARIZER_RATE_LIMIT"`
	// RateBurst is the token bucket size when RateLimit is set. Default: 1
	RateBurst int `yaml:"rate_burst" env:"SUMMARIZER_RATE_BURST"`

	AnthropicAPIKey  string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `yaml:"anthropic_base_url" env:"ANTHROPIC_BASE_URL"`
	OpenAIAPIKey     string `yaml:"-" env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
}

// CircuitBreakerConfig guards the provider against repeated failures. A
// tripped breaker rejects later chunks without calling the provider.
type CircuitBreakerConfig struct {
	// Enabled turns the breaker on. Default: false
	Enabled bool `yaml:"enabled" env:"SUMMARIZER_CB_ENABLED"`
	// MaxRequests in half-open state.
	MaxRequests uint32 `yaml:"max_requests" env:"SUMMARIZER_CB_MAX_REQUESTS"`
	// Interval for clearing failure counts.
	Interval time.Duration `yaml:"interval" env:"SUMMARIZER_CB_INTERVAL"`
	// Timeout before transitioning from open to half-open.
	Timeout time.Duration `yaml:"timeout" env:"SUMMARIZER_CB_TIMEOUT"`
	// FailureThreshold ratio to trip circuit (0.0 to 1.0).
	FailureThreshold float64 `yaml:"failure_threshold" env:"SUMMARIZER_CB_FAILURE_THRESHOLD"`
	// MinRequests before calculating failure ratio.
	MinRequests uint32 `yaml:"min_requests" env:"SUMMARIZER_CB_MIN_REQUESTS"`
}

// BulletConfig controls bullet rendering.
type BulletConfig struct {
	// Order is "stable" (first occurrence) or "set" (unordered). Default: "stable"
	Order string `yaml:"order" env:"BULLET_ORDER"`
	// Marker prefixes every bullet. Default: "- "
	Marker string `yaml:"marker" env:"BULLET_MARKER"`
}

// FetchConfig controls how http(s) documents are downloaded.
type FetchConfig struct {
	// Timeout bounds a single download. Default: 30s
	Timeout time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT"`
	// MaxBodySize is the largest accepted response in bytes. Default: 10MB
	MaxBodySize int64 `yaml:"max_body_size" env:"FETCH_MAX_BODY_SIZE"`
	// MaxRedirects is the longest redirect chain followed. Default: 5
	MaxRedirects int `yaml:"max_redirects" env:"FETCH_MAX_REDIRECTS"`
	// DenyPrivateIPs rejects URLs resolving to loopback, private or
	// link-local addresses. Default: true
	DenyPrivateIPs bool `yaml:"deny_private_ips" env:"FETCH_DENY_PRIVATE_IPS"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Default: "info"
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Format is json or text. Default: "json"
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		Summary: SummaryConfig{
			ChunkSizePass1:       200,
			ChunkSizePass2:       16000,
			WordCountThreshold:   16000,
			MaxOutputTokensPass1: 300,
			MaxOutputTokensPass2: 1024,
			FallbackMarker:       DefaultFallbackMarker,
			Concurrency:          1,
		},
		Gateway: GatewayConfig{
			Provider:          ProviderOpenAI,
			Temperature:       1.0,
			Timeout:           60 * time.Second,
			MaxAttempts:       1,
			RetryInitialDelay: 2 * time.Second,
			RateBurst:         1,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      3,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		Bullets: BulletConfig{
			Order:  OrderStable,
			Marker: "- ",
		},
		Fetch: FetchConfig{
			Timeout:        30 * time.Second,
			MaxBodySize:    10 * 1024 * 1024,
			MaxRedirects:   5,
			DenyPrivateIPs: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Override adjusts a loaded configuration before validation, e.g. from
// command-line flags.
type Override func(*Config)

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty), the process environment and the overrides, in that
// order, then validates it.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile overlays the YAML document at path onto cfg. Keys missing from
// the file keep their current values.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path is provided by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	var errs []error

	s := c.Summary
	if s.ChunkSizePass1 <= 0 {
		errs = append(errs, errors.New("SUMMARY_CHUNK_SIZE_PASS1 must be positive"))
	}
	if s.ChunkSizePass2 <= 0 {
		errs = append(errs, errors.New("SUMMARY_CHUNK_SIZE_PASS2 must be positive"))
	}
	if s.WordCountThreshold <= 0 {
		errs = append(errs, errors.New("SUMMARY_WORD_COUNT_THRESHOLD must be positive"))
	}
	if s.MaxOutputTokensPass1 <= 0 {
		errs = append(errs, errors.New("SUMMARY_MAX_OUTPUT_TOKENS_PASS1 must be positive"))
	}
	if s.MaxOutputTokensPass2 <= 0 {
		errs = append(errs, errors.New("SUMMARY_MAX_OUTPUT_TOKENS_PASS2 must be positive"))
	}
	if s.FallbackMarker == "" {
		errs = append(errs, errors.New("SUMMARY_FALLBACK_MARKER cannot be empty"))
	}
	if s.Concurrency <= 0 {
		errs = append(errs, errors.New("SUMMARY_CONCURRENCY must be positive"))
	}

	g := c.Gateway
	if err := validateProvider("SUMMARIZER_PROVIDER", g.Provider, false); err != nil {
		errs = append(errs, err)
	}
	if err := validateProvider("SUMMARIZER_FALLBACK_PROVIDER", g.FallbackProvider, true); err != nil {
		errs = append(errs, err)
	}
	uses := map[string]bool{g.Provider: true, g.FallbackProvider: true}
	if uses[ProviderOpenAI] && g.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
	}
	if uses[ProviderClaude] && g.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude provider"))
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		errs = append(errs, errors.New("SUMMARIZER_TEMPERATURE must be between 0.0 and 2.0"))
	}
	if g.Timeout <= 0 {
		errs = append(errs, errors.New("SUMMARIZER_TIMEOUT must be positive"))
	}
	if g.MaxAttempts <= 0 {
		errs = append(errs, errors.New("SUMMARIZER_MAX_ATTEMPTS must be positive"))
	}
	if g.MaxAttempts > 1 && g.RetryInitialDelay <= 0 {
		errs = append(errs, errors.New("SUMMARIZER_RETRY_INITIAL_DELAY must be positive when retries are enabled"))
	}
	if g.RateLimit < 0 {
		errs = append(errs, errors.New("SUMMARIZER_RATE_LIMIT cannot be negative"))
	}
	if g.RateLimit > 0 && g.RateBurst <= 0 {
		errs = append(errs, errors.New("SUMMARIZER_RATE_BURST must be positive when rate limiting is enabled"))
	}

	if cb := c.CircuitBreaker; cb.Enabled {
		if cb.MaxRequests == 0 {
			errs = append(errs, errors.New("SUMMARIZER_CB_MAX_REQUESTS must be positive"))
		}
		if cb.Interval <= 0 {
			errs = append(errs, errors.New("SUMMARIZER_CB_INTERVAL must be positive"))
		}
		if cb.Timeout <= 0 {
			errs = append(errs, errors.New("SUMMARIZER_CB_TIMEOUT must be positive"))
		}
		if cb.FailureThreshold <= 0 || cb.FailureThreshold > 1 {
			errs = append(errs, errors.New("SUMMARIZER_CB_FAILURE_THRESHOLD must be in (0.0, 1.0]"))
		}
	}

	if c.Bullets.Order != OrderStable && c.Bullets.Order != OrderSet {
		errs = append(errs, fmt.Errorf("BULLET_ORDER must be %q or %q, got %q", OrderStable, OrderSet, c.Bullets.Order))
	}

	f := c.Fetch
	if f.Timeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	if f.MaxBodySize < 1024 || f.MaxBodySize > 100*1024*1024 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_BODY_SIZE must be between 1KB and 100MB, got %d", f.MaxBodySize))
	}
	if f.MaxRedirects < 0 || f.MaxRedirects > 10 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_REDIRECTS must be between 0 and 10, got %d", f.MaxRedirects))
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func validateProvider(key, provider string, optional bool) error {
	switch provider {
	case ProviderOpenAI, ProviderClaude, ProviderEcho:
		return nil
	case "":
		if optional {
			return nil
		}
		return fmt.Errorf("%s cannot be empty", key)
	default:
		return fmt.Errorf("%s must be one of openai, claude, echo; got %q", key, provider)
	}
}
