package domain

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Message is one entry in the conversation history.
// ToolCalls is only set on assistant messages, ToolCallID and Name only on tool messages.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message, optionally carrying tool calls.
func AssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: cloneToolCalls(calls)}
}

// ToolResultMessage creates a tool-result message answering the call with the given ID.
func ToolResultMessage(toolCallID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID, Name: name}
}

// HasToolCalls reports whether m is an assistant message with pending tool calls.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

func (m Message) clone() Message {
	m.ToolCalls = cloneToolCalls(m.ToolCalls)
	return m
}

func cloneToolCalls(calls []ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, len(calls))
	for i, c := range calls {
		out[i] = ToolCall{ID: c.ID, Name: c.Name, Args: cloneArgs(c.Args)}
	}
	return out
}

// cloneArgs copies decoded JSON arguments, including nested objects and arrays.
func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneArgs(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// History is the ordered, append-only conversation of one session.
// It is owned by a single turn loop and is not safe for concurrent use.
type History struct {
	messages []Message
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds copies of msgs to the end of the history.
func (h *History) Append(msgs ...Message) {
	for _, m := range msgs {
		h.messages = append(h.messages, m.clone())
	}
}

// Messages returns a copy of the history.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.clone()
	}
	return out
}

// Last returns the most recent message.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1].clone(), true
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}
