package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// MockClient is a mock implementation of LLMClient.
// Scripted replies are returned in order; once the script is exhausted it answers with a canned echo.
type MockClient struct {
	mu       sync.Mutex
	script   []domain.Message
	errs     []error
	requests []ChatRequest
}

// NewMockClient creates a new mock LLM client with an optional script of assistant replies.
func NewMockClient(script ...domain.Message) *MockClient {
	return &MockClient{script: script}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// FailNext makes the next invocation return err instead of a reply.
func (m *MockClient) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

// CreateChatCompletion returns the next scripted reply.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := *req
	recorded.Messages = append([]domain.Message(nil), req.Messages...)
	m.requests = append(m.requests, recorded)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}

	var reply domain.Message
	if len(m.script) > 0 {
		reply = m.script[0]
		m.script = m.script[1:]
	} else {
		reply = domain.AssistantMessage(generateMockResponse(req))
	}

	finish := "stop"
	if reply.HasToolCalls() {
		finish = "tool_calls"
	}
	return &ChatResponse{
		Message:      reply,
		Model:        req.Model,
		FinishReason: finish,
	}, nil
}

// Calls returns how many times the model was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns copies of the recorded requests.
func (m *MockClient) Requests() []ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChatRequest(nil), m.requests...)
}

func generateMockResponse(req *ChatRequest) string {
	var lastUserMessage string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == domain.RoleUser {
			lastUserMessage = req.Messages[i].Content
			break
		}
	}

	if lastUserMessage == "" {
		return "[MOCK] This is a mock response from the LLM client."
	}

	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUserMessage, 100))
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
