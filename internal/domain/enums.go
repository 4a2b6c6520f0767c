// Package domain defines the core domain models for the agent loop.
package domain

// Role tags a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Route is the outcome of the router after an assistant reply.
type Route string

const (
	RouteTools Route = "tools"
	RouteEnd   Route = "end"
)

// TurnStatus represents the status of a turn.
type TurnStatus string

const (
	TurnStatusRunning   TurnStatus = "RUNNING"
	TurnStatusDone      TurnStatus = "DONE"
	TurnStatusStepLimit TurnStatus = "STEP_LIMIT"
	TurnStatusFailed    TurnStatus = "FAILED"
	TurnStatusCancelled TurnStatus = "CANCELLED"
)

// EventType represents the type of a journal event.
type EventType string

const (
	EventTypeTurnStarted     EventType = "turn_started"
	EventTypeModelCalled     EventType = "model_called"
	EventTypePolicyDecision  EventType = "policy_decision"
	EventTypeApprovalDecided EventType = "approval_decided"
	EventTypeToolResult      EventType = "tool_result"
	EventTypeTurnDone        EventType = "turn_done"
	EventTypeTurnStepLimit   EventType = "turn_step_limit"
	EventTypeTurnFailed      EventType = "turn_failed"
)

// ToolCallStatus represents the status of a tool call.
type ToolCallStatus string

const (
	ToolCallStatusSucceeded ToolCallStatus = "SUCCEEDED"
	ToolCallStatusFailed    ToolCallStatus = "FAILED"
	ToolCallStatusBlocked   ToolCallStatus = "BLOCKED"
	ToolCallStatusRejected  ToolCallStatus = "REJECTED"
	ToolCallStatusUnknown   ToolCallStatus = "UNKNOWN_TOOL"
)

// PolicyDecision is the outcome of evaluating the tool policy.
type PolicyDecision string

const (
	PolicyAllow           PolicyDecision = "allow"
	PolicyRequireApproval PolicyDecision = "require_approval"
	PolicyBlock           PolicyDecision = "block"
)

// Tool names. The set is closed: every name here has exactly one handler.
const (
	ToolCreateDirectory     = "create_directory"
	ToolCreateFile          = "create_file"
	ToolRunTerminalCommand  = "run_terminal_command"
	ToolRunShellCommand     = "run_shell_command"
	ToolGetRunningProcesses = "get_running_processes"
	ToolGetRAMUsage         = "get_ram_usage"
	ToolAdd                 = "add"
	ToolSubtract            = "subtract"
	ToolMultiply            = "multiply"
)

// ShellTools lists the tools that hand a command line to the operating system.
var ShellTools = map[string]bool{
	ToolRunTerminalCommand:  true,
	ToolRunShellCommand:     true,
	ToolGetRunningProcesses: true,
	ToolGetRAMUsage:         true,
}
