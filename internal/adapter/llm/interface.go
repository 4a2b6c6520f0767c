// Package llm provides an abstraction for LLM API clients.
package llm

import (
	"context"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// ChatRequest is one model invocation: a system prompt, the ordered history and the tools on offer.
type ChatRequest struct {
	Model       string
	System      string
	Messages    []domain.Message
	Tools       []domain.ToolSpec
	Temperature *float64
	MaxTokens   int
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// ChatResponse holds the assistant message produced by one invocation.
type ChatResponse struct {
	Message      domain.Message
	Model        string
	FinishReason string
	Usage        Usage
}

// LLMClient defines the interface for LLM API operations.
type LLMClient interface {
	// CreateChatCompletion sends a chat completion request (non-streaming).
	CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
