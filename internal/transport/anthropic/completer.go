// Package anthropic adapts the Anthropic messages API to domain.Completer.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
)

// DefaultTimeout bounds one completion call.
const DefaultTimeout = 60 * time.Second

// Config holds the Anthropic client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Completer sends single-turn requests through langchaingo's Anthropic model.
type Completer struct {
	llm    llms.Model
	model  string
	logger *zap.Logger
}

// New creates an Anthropic completer.
func New(cfg *Config) (*Completer, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := []anthropic.Option{
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
		anthropic.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	llm, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{llm: llm, model: cfg.Model, logger: logger}, nil
}

// Complete implements domain.Completer. Every returned choice becomes one
// content block; tool calls surface as tool_use blocks.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}
	callOpts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.Completion{}, fmt.Errorf("anthropic completion: %w", errors.Join(err, domain.ErrUpstreamUnavailable))
		}
		return domain.Completion{}, fmt.Errorf("anthropic completion: %v: %w", err, domain.ErrUpstreamUnavailable)
	}

	out := domain.Completion{Model: c.model}
	for _, choice := range resp.Choices {
		if choice == nil {
			continue
		}
		if choice.Content != "" {
			out.Blocks = append(out.Blocks, domain.ContentBlock{Type: domain.BlockText, Text: choice.Content})
		}
		for _, call := range choice.ToolCalls {
			block := domain.ContentBlock{Type: domain.BlockToolUse}
			if call.FunctionCall != nil {
				block.Text = call.FunctionCall.Arguments
			}
			out.Blocks = append(out.Blocks, block)
		}
	}
	c.logger.Debug("Anthropic completion",
		zap.String("model", c.model),
		zap.Int("choices", len(resp.Choices)),
		zap.Int("blocks", len(out.Blocks)),
	)
	return out, nil
}
