package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"docdiff/internal/config"
	"docdiff/internal/resilience/retry"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// maxClaudeTemperature is the upper bound the Messages API accepts.
const maxClaudeTemperature = 1.0

// ClaudeConfig holds connection parameters for the Claude completer.
type ClaudeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Claude implements Completer using Anthropic's Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

// NewClaude creates a Claude completer. SDK-level retries are disabled;
// retrying is decided by the gateway.
func NewClaude(cfg ClaudeConfig) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	return &Claude{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Name implements Completer.
func (c *Claude) Name() string { return config.ProviderClaude }

// Complete implements Completer.
func (c *Claude) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserMessage())),
		},
		Temperature: anthropic.Float(min(req.Temperature, maxClaudeTemperature)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			err = &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, textBlock.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("claude: %w", ErrEmptyResponse)
	}

	return strings.Join(parts, ""), nil
}
