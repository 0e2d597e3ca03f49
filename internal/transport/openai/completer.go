package openai

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
)

// Completer sends single-turn chat completions to an OpenAI-compatible API.
type Completer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewCompleter creates a chat completion client.
func NewCompleter(cfg *Config) *Completer {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{client: newClient(cfg), model: cfg.Model, logger: logger}
}

// Complete implements domain.Completer. Each choice becomes one text block.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	chat := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: temperature(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return domain.Completion{}, parseAPIError("completion", err)
	}

	out := domain.Completion{Model: resp.Model}
	for _, choice := range resp.Choices {
		if choice.Message.Content == "" {
			continue
		}
		out.Blocks = append(out.Blocks, domain.ContentBlock{Type: domain.BlockText, Text: choice.Message.Content})
	}
	if len(out.Blocks) == 0 {
		c.logger.Debug("Completion returned no text", zap.String("model", resp.Model), zap.Int("choices", len(resp.Choices)))
	}
	return out, nil
}

// temperature maps 0 to the smallest positive float32; go-openai drops a zero
// temperature from the request body and the API would then sample at its default.
func temperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// HealthCheck verifies API availability.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", parseAPIError("completion", err))
	}
	return nil
}
