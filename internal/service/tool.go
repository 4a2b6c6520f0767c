package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
	"github.com/xiaot623/gogo/agentloop/internal/tools"
	"github.com/xiaot623/gogo/agentloop/policy"
)

// executeToolCall runs one tool call through policy, approval and the registry.
// Every failure becomes result text for the model; nothing here fails the turn.
func (s *Service) executeToolCall(ctx context.Context, turnID string, call domain.ToolCall) domain.ToolResult {
	start := time.Now()
	record := &domain.ToolCallRecord{
		RecordID:   "tc_" + uuid.New().String()[:8],
		ToolCallID: call.ID,
		TurnID:     turnID,
		ToolName:   call.Name,
		Decision:   domain.PolicyAllow,
		Args:       json.RawMessage(argsJSON(call.Args)),
		CreatedAt:  start,
	}
	result := domain.ToolResult{ToolCallID: call.ID, Name: call.Name}

	defer func() {
		completedAt := time.Now()
		record.Status = result.Status
		record.Output = result.Output
		record.CompletedAt = &completedAt
		s.saveToolCall(ctx, record)
		s.recordEvent(ctx, turnID, domain.EventTypeToolResult, domain.ToolResultPayload{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Status:     result.Status,
			DurationMs: completedAt.Sub(start).Milliseconds(),
		})
		s.tracef("[tools] %s -> %s", call.Name, summarize(result.Output))
	}()

	if !s.offered[call.Name] {
		result.Status = domain.ToolCallStatusUnknown
		result.Output = fmt.Sprintf("Error: tool %q not found", call.Name)
		return result
	}

	command := tools.CommandFor(call.Name, call.Args)
	decision, reason := s.checkPolicy(ctx, call, command)
	record.Decision = decision
	s.recordEvent(ctx, turnID, domain.EventTypePolicyDecision, domain.PolicyDecisionPayload{
		ToolCallID: call.ID,
		ToolName:   call.Name,
		Decision:   decision,
		Reason:     reason,
	})

	switch decision {
	case domain.PolicyBlock:
		result.Status = domain.ToolCallStatusBlocked
		result.Output = fmt.Sprintf("Error: %s was blocked by policy: %s", call.Name, reason)
		return result
	case domain.PolicyRequireApproval:
		approved, err := s.approver.Approve(ctx, ApprovalRequest{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Args:       call.Args,
			Command:    command,
			Reason:     reason,
		})
		if err != nil {
			log.Printf("WARN: approval for %s failed: %v", call.ID, err)
		}
		s.recordEvent(ctx, turnID, domain.EventTypeApprovalDecided, domain.ApprovalDecidedPayload{
			ToolCallID: call.ID,
			Approved:   approved && err == nil,
		})
		if err != nil || !approved {
			result.Status = domain.ToolCallStatusRejected
			result.Output = fmt.Sprintf("Error: the user declined to run %s.", call.Name)
			return result
		}
	}

	out, err := s.invoke(ctx, call)
	if err != nil {
		result.Status = domain.ToolCallStatusFailed
		result.Output = "Error: " + err.Error()
		return result
	}
	result.Status = domain.ToolCallStatusSucceeded
	result.Output = out
	return result
}

// invoke runs the registered executor, turning a panic into an error.
func (s *Service) invoke(ctx context.Context, call domain.ToolCall) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()
	return s.tools.Execute(ctx, call.Name, call.Args)
}

// checkPolicy evaluates the policy engine. Evaluation errors block the call.
func (s *Service) checkPolicy(ctx context.Context, call domain.ToolCall, command string) (domain.PolicyDecision, string) {
	if s.policyEngine == nil {
		return domain.PolicyAllow, "no policy"
	}
	res, err := s.policyEngine.Evaluate(ctx, policy.Input{
		ToolName: call.Name,
		Args:     call.Args,
		Command:  command,
		Shell:    domain.ShellTools[call.Name],
		WorkDir:  s.config.WorkDir,
		Profile:  s.profile.Name,
	})
	if err != nil {
		log.Printf("ERROR: policy evaluation for %s failed: %v", call.Name, err)
		return domain.PolicyBlock, "policy evaluation failed"
	}
	return res.Decision, res.Reason
}

func (s *Service) saveToolCall(ctx context.Context, record *domain.ToolCallRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.CreateToolCall(context.WithoutCancel(ctx), record); err != nil {
		log.Printf("WARN: failed to record tool call %s: %v", record.ToolCallID, err)
	}
}

func argsJSON(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// summarize returns the first line of out, shortened for trace output.
func summarize(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return line
}
