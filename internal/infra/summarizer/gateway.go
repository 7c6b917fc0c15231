package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"docdiff/internal/config"
	"docdiff/internal/resilience/circuitbreaker"
	"docdiff/internal/resilience/retry"
	"docdiff/internal/utils/text"
)

// Pass identifies which summarization level a call belongs to.
type Pass string

const (
	// PassChunk condenses one small first-pass chunk.
	PassChunk Pass = "chunk"
	// PassFinal condenses one large second-pass chunk.
	PassFinal Pass = "final"
)

// Prompt is the fixed wording sent for one pass.
type Prompt struct {
	System      string
	Instruction string
}

var prompts = map[Pass]Prompt{
	PassChunk: {
		System:      "Provide a concise summary.",
		Instruction: "Summarize this text: ",
	},
	PassFinal: {
		System:      "Provide a final comprehensive summary.",
		Instruction: "Provide a final summary of these changes: ",
	},
}

// Gateway sends bounded chunks to a Completer. Each call is bounded by a
// timeout. Circuit breaking, rate limiting and retries are optional and off
// by default, so every chunk reaches the provider on its own.
type Gateway struct {
	completer   Completer
	breaker     *circuitbreaker.CircuitBreaker
	passthrough bool
	retryConfig retry.Config
	limiter     *rate.Limiter
	timeout     time.Duration
	temperature float64
	metrics     MetricsRecorder
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout bounds every call. A non-positive value disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRetry sets the retry policy.
func WithRetry(cfg retry.Config) Option {
	return func(g *Gateway) { g.retryConfig = cfg }
}

// WithRateLimit paces calls to rps requests per second. Zero disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCircuitBreaker guards calls with cb. A nil cb disables breaking.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(g *Gateway) { g.breaker = cb }
}

// WithTemperature sets the sampling temperature passed to the provider.
func WithTemperature(t float64) Option {
	return func(g *Gateway) { g.temperature = t }
}

// WithMetrics replaces the Prometheus recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway creates a single-shot gateway around completer.
func NewGateway(completer Completer, opts ...Option) *Gateway {
	g := &Gateway{
		completer:   completer,
		retryConfig: retry.SingleShot(),
		timeout:     60 * time.Second,
		temperature: 1.0,
		metrics:     NewPrometheusMetrics(),
	}
	// Echo answers with the text it was given, blank or not.
	_, g.passthrough = completer.(*Echo)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGatewayFromConfig builds the completer chain and gateway from cfg.
func NewGatewayFromConfig(cfg *config.Config) (*Gateway, error) {
	completer, err := NewCompleterFromConfig(cfg.Gateway)
	if err != nil {
		return nil, err
	}

	var cb *circuitbreaker.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		cb = circuitbreaker.New(circuitbreaker.Config{
			Name:             completer.Name(),
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			MinRequests:      cfg.CircuitBreaker.MinRequests,
		})
	}

	slog.Info("initialized summarization gateway",
		slog.String("provider", completer.Name()),
		slog.Duration("timeout", cfg.Gateway.Timeout),
		slog.Int("max_attempts", cfg.Gateway.MaxAttempts),
		slog.Float64("rate_limit", cfg.Gateway.RateLimit),
		slog.Bool("circuit_breaker", cb != nil))

	return NewGateway(completer,
		WithCircuitBreaker(cb),
		WithTimeout(cfg.Gateway.Timeout),
		WithRetry(retry.AIAPIConfig(cfg.Gateway.MaxAttempts, cfg.Gateway.RetryInitialDelay)),
		WithRateLimit(cfg.Gateway.RateLimit, cfg.Gateway.RateBurst),
		WithTemperature(cfg.Gateway.Temperature),
	), nil
}

// Provider returns the name of the underlying completer chain.
func (g *Gateway) Provider() string {
	return g.completer.Name()
}

// SummarizeChunk condenses one small first-pass chunk.
func (g *Gateway) SummarizeChunk(ctx context.Context, chunk string, maxOutputTokens int) (string, error) {
	return g.summarize(ctx, PassChunk, chunk, maxOutputTokens)
}

// SummarizeFinal condenses one large second-pass chunk.
func (g *Gateway) SummarizeFinal(ctx context.Context, chunk string, maxOutputTokens int) (string, error) {
	return g.summarize(ctx, PassFinal, chunk, maxOutputTokens)
}

func (g *Gateway) summarize(ctx context.Context, pass Pass, chunk string, maxOutputTokens int) (string, error) {
	requestID := uuid.New().String()
	logger := slog.With(
		slog.String("request_id", requestID),
		slog.String("pass", string(pass)),
		slog.String("provider", g.completer.Name()))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := prompts[pass]
	req := Request{
		System:      prompt.System,
		Instruction: prompt.Instruction,
		Text:        chunk,
		MaxTokens:   maxOutputTokens,
		Temperature: g.temperature,
	}

	logger.DebugContext(ctx, "starting summarization",
		slog.Int("input_length", text.CountRunes(chunk)),
		slog.Int("max_output_tokens", maxOutputTokens))

	start := time.Now()
	summary, err := g.call(ctx, req)
	duration := time.Since(start)
	g.metrics.RecordDuration(pass, duration)

	if err != nil {
		g.metrics.RecordCall(pass, outcomeOf(err))
		logger.WarnContext(ctx, "summarization failed",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", err
	}

	length := text.CountRunes(summary)
	g.metrics.RecordCall(pass, OutcomeSuccess)
	g.metrics.RecordLength(pass, length)
	logger.DebugContext(ctx, "summarization completed",
		slog.Int("summary_length", length),
		slog.Duration("duration", duration))

	return summary, nil
}

// call runs one logical request through the limiter, retry policy and
// breaker, when configured.
func (g *Gateway) call(ctx context.Context, req Request) (string, error) {
	var result string

	err := retry.WithBackoff(ctx, g.retryConfig, func() error {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		complete := func() (string, error) {
			out, err := g.completer.Complete(ctx, req)
			if err != nil {
				return "", err
			}
			if !g.passthrough && strings.TrimSpace(out) == "" {
				return "", ErrEmptyResponse
			}
			return out, nil
		}

		var out string
		var err error
		if g.breaker != nil {
			out, err = circuitbreaker.Do(g.breaker, complete)
		} else {
			out, err = complete()
		}
		if err != nil {
			if circuitbreaker.IsOpenError(err) {
				return ErrCircuitOpen
			}
			return err
		}

		result = out
		return nil
	})
	if err != nil {
		return "", err
	}

	return result, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return OutcomeCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeFailure
	}
}
