package service

import (
	"context"
)

// ApprovalRequest describes a tool call the policy wants a human to confirm.
type ApprovalRequest struct {
	ToolCallID string
	ToolName   string
	Args       map[string]any
	Command    string
	Reason     string
}

// Approver decides require_approval tool calls.
type Approver interface {
	Approve(ctx context.Context, req ApprovalRequest) (bool, error)
}

// StaticApprover answers every request the same way. It is used when nobody is at the terminal.
type StaticApprover struct {
	Allow bool
}

// Approve implements Approver.
func (a StaticApprover) Approve(context.Context, ApprovalRequest) (bool, error) {
	return a.Allow, nil
}
