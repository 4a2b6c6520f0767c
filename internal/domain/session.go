package domain

import (
	"encoding/json"
	"time"
)

// Session is one REPL process lifetime.
type Session struct {
	SessionID string    `json:"session_id"`
	Profile   string    `json:"profile"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Turn is one user input through one final assistant reply.
type Turn struct {
	TurnID    string     `json:"turn_id"`
	SessionID string     `json:"session_id"`
	Input     string     `json:"input"`
	Output    string     `json:"output,omitempty"`
	Status    TurnStatus `json:"status"`
	Steps     int        `json:"steps"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Event represents a journal event.
type Event struct {
	EventID string          `json:"event_id"`
	TurnID  string          `json:"turn_id"`
	Ts      int64           `json:"ts"` // Unix milliseconds
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TurnStartedPayload is the payload for turn_started events.
type TurnStartedPayload struct {
	Input   string `json:"input"`
	Profile string `json:"profile"`
}

// ModelCalledPayload is the payload for model_called events.
type ModelCalledPayload struct {
	Step         int    `json:"step"`
	Model        string `json:"model"`
	LatencyMs    int64  `json:"latency_ms"`
	ToolCalls    int    `json:"tool_calls"`
	FinishReason string `json:"finish_reason,omitempty"`
	InputTokens  int64  `json:"input_tokens,omitempty"`
	OutputTokens int64  `json:"output_tokens,omitempty"`
}

// PolicyDecisionPayload is the payload for policy_decision events.
type PolicyDecisionPayload struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Decision   PolicyDecision `json:"decision"`
	Reason     string         `json:"reason,omitempty"`
}

// ApprovalDecidedPayload is the payload for approval_decided events.
type ApprovalDecidedPayload struct {
	ToolCallID string `json:"tool_call_id"`
	Approved   bool   `json:"approved"`
}

// ToolResultPayload is the payload for tool_result events.
type ToolResultPayload struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Status     ToolCallStatus `json:"status"`
	DurationMs int64          `json:"duration_ms"`
}

// TurnEndedPayload is the payload for turn_done, turn_step_limit and turn_failed events.
type TurnEndedPayload struct {
	Steps int    `json:"steps"`
	Error string `json:"error,omitempty"`
}
