package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

func newOpenAITestServer(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClientToolCalls(t *testing.T) {
	var got map[string]any
	srv := newOpenAITestServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-test",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"refusal": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "add", "arguments": "{\"a\":40,\"b\":12}"}
				}]
			}
		}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, &got)

	client := NewOpenAIClient(srv.URL, "test-key", 5*time.Second, 0, false)
	temp := 0.0
	resp, err := client.CreateChatCompletion(context.Background(), &ChatRequest{
		Model:  "gpt-test",
		System: "be brief",
		Messages: []domain.Message{
			domain.UserMessage("what is 40+12?"),
		},
		Tools: []domain.ToolSpec{{
			Name:        "add",
			Description: "Adds two integers.",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		}},
		Temperature: &temp,
		MaxTokens:   256,
	})
	require.NoError(t, err)

	require.True(t, resp.Message.HasToolCalls())
	call := resp.Message.ToolCalls[0]
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "add", call.Name)
	assert.Equal(t, map[string]any{"a": 40.0, "b": 12.0}, call.Args)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, int64(10), resp.Usage.InputTokens)

	assert.Equal(t, "gpt-test", got["model"])
	assert.EqualValues(t, 256, got["max_completion_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	tools := got["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "add", tools[0].(map[string]any)["function"].(map[string]any)["name"])
}

func TestOpenAIClientReplaysToolHistory(t *testing.T) {
	var got map[string]any
	srv := newOpenAITestServer(t, `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "52", "refusal": ""}}]
	}`, &got)

	client := NewOpenAIClient(srv.URL, "test-key", 5*time.Second, 0, true)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatRequest{
		Model: "gpt-test",
		Messages: []domain.Message{
			domain.UserMessage("40+12?"),
			domain.AssistantMessage("", domain.ToolCall{ID: "call_1", Name: "add", Args: map[string]any{"a": 40, "b": 12}}),
			domain.ToolResultMessage("call_1", "add", "52"),
		},
		MaxTokens: 64,
	})
	require.NoError(t, err)
	assert.Equal(t, "52", resp.Message.Content)
	assert.False(t, resp.Message.HasToolCalls())

	assert.EqualValues(t, 64, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 3)
	assistant := msgs[1].(map[string]any)
	calls := assistant["tool_calls"].([]any)
	require.Len(t, calls, 1)
	fn := calls[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "add", fn["name"])
	assert.JSONEq(t, `{"a":40,"b":12}`, fn["arguments"].(string))
	tool := msgs[2].(map[string]any)
	assert.Equal(t, "tool", tool["role"])
	assert.Equal(t, "call_1", tool["tool_call_id"])
}

func TestOpenAIClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "test-key", 5*time.Second, 0, false)
	_, err := client.CreateChatCompletion(context.Background(), &ChatRequest{Model: "gpt-test", Messages: []domain.Message{domain.UserMessage("hi")}})
	assert.Error(t, err)
}

func TestDecodeArgs(t *testing.T) {
	assert.Equal(t, map[string]any{}, decodeArgs(""))
	assert.Equal(t, map[string]any{}, decodeArgs("{not json"))
	assert.Equal(t, map[string]any{"command": "ls"}, decodeArgs(`{"command":"ls"}`))
}
