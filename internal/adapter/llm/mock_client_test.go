package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/agentloop/config"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

func TestMockClientScript(t *testing.T) {
	ctx := context.Background()
	reply := domain.AssistantMessage("", domain.ToolCall{ID: "c1", Name: "add", Args: map[string]any{"a": 1.0, "b": 2.0}})
	client := NewMockClient(reply)
	client.FailNext(errors.New("boom"))

	_, err := client.CreateChatCompletion(ctx, &ChatRequest{Messages: []domain.Message{domain.UserMessage("x")}})
	assert.EqualError(t, err, "boom")

	resp, err := client.CreateChatCompletion(ctx, &ChatRequest{Messages: []domain.Message{domain.UserMessage("x")}})
	require.NoError(t, err)
	assert.Equal(t, reply, resp.Message)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	resp, err = client.CreateChatCompletion(ctx, &ChatRequest{Messages: []domain.Message{domain.UserMessage("hello")}})
	require.NoError(t, err)
	assert.Contains(t, resp.Message.Content, `"hello"`)
	assert.Equal(t, 3, client.Calls())
}

func TestMockClientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockClient().CreateChatCompletion(ctx, &ChatRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLLMClient(t *testing.T) {
	c, err := NewLLMClient(&config.Config{Provider: config.ProviderMock})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	c, err = NewLLMClient(&config.Config{Provider: config.ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	c, err = NewLLMClient(&config.Config{Provider: config.ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewLLMClient(&config.Config{Provider: "cohere"})
	assert.Error(t, err)
}
