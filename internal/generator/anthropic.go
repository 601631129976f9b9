package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

const defaultCallTimeout = 120 * time.Second

// AnthropicConfig holds settings for the Anthropic-backed generator.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
	logger  logger.Logger
}

// NewAnthropic creates a generator backed by the Anthropic API.
func NewAnthropic(cfg AnthropicConfig, log logger.Logger) (*AnthropicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}

	return &AnthropicGenerator{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   anthropic.Model(cfg.Model),
		timeout: timeout,
		logger:  log,
	}, nil
}

// Generate sends a single user message and returns the concatenated text
// blocks. Every call is bounded by the configured timeout so a slow upstream
// cannot pin a pipeline step indefinitely.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (*Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()

	message, callErr := g.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if callErr != nil {
		return nil, fmt.Errorf("anthropic messages call: %w", callErr)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	tokens := int(message.Usage.InputTokens + message.Usage.OutputTokens)

	g.logger.Debug("Generation call complete",
		logger.Int("prompt_chars", len(prompt)),
		logger.Int("tokens_used", tokens),
		logger.Duration("duration", time.Since(start)),
	)

	return &Result{
		Text:       text.String(),
		TokensUsed: tokens,
	}, nil
}
