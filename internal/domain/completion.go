package domain

import "context"

// Completer sends a single-turn request to a language-model completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// CompletionRequest is one system prompt plus one user message.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Content block types.
const (
	BlockText    = "text"
	BlockToolUse = "tool_use"
)

// ContentBlock is one typed piece of a completion response.
type ContentBlock struct {
	Type string
	Text string
}

// Completion is the response of a completion service.
type Completion struct {
	Model  string
	Blocks []ContentBlock
}

// FirstText returns the first text block, if any.
func (c Completion) FirstText() (string, bool) {
	for _, b := range c.Blocks {
		if b.Type == BlockText {
			return b.Text, true
		}
	}
	return "", false
}
