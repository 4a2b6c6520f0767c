package domain

import (
	"encoding/json"
	"time"
)

// ToolSpec describes a tool to the model.
// Parameters is a JSON Schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolResult is the outcome of one tool call as fed back to the model.
type ToolResult struct {
	ToolCallID string         `json:"tool_call_id"`
	Name       string         `json:"name"`
	Output     string         `json:"output"`
	Status     ToolCallStatus `json:"status"`
}

// ToolCallRecord is the journal entry for an executed tool call.
type ToolCallRecord struct {
	RecordID    string          `json:"record_id"`
	ToolCallID  string          `json:"tool_call_id"`
	TurnID      string          `json:"turn_id"`
	ToolName    string          `json:"tool_name"`
	Status      ToolCallStatus  `json:"status"`
	Decision    PolicyDecision  `json:"decision"`
	Args        json.RawMessage `json:"args"`
	Output      string          `json:"output"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
