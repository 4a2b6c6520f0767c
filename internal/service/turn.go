package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/agentloop/internal/adapter/llm"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// TurnResult is the outcome of one turn.
type TurnResult struct {
	TurnID string
	// Final is the last assistant message. When StepLimitReached is set it may still carry tool calls.
	Final            domain.Message
	Steps            int
	Status           domain.TurnStatus
	StepLimitReached bool
}

// RunTurn appends input to history and runs model and tool steps until the model
// answers without tool calls or the step limit is reached. Reaching the limit is
// reported through the result, not as an error.
func (s *Service) RunTurn(ctx context.Context, history *domain.History, input string) (*TurnResult, error) {
	turn := &domain.Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		SessionID: s.sessionID,
		Input:     input,
		Status:    domain.TurnStatusRunning,
		StartedAt: time.Now(),
	}
	if s.store != nil {
		if err := s.store.CreateTurn(ctx, turn); err != nil {
			log.Printf("WARN: failed to record turn: %v", err)
		}
	}
	s.recordEvent(ctx, turn.TurnID, domain.EventTypeTurnStarted, domain.TurnStartedPayload{
		Input:   input,
		Profile: s.profile.Name,
	})

	history.Append(domain.UserMessage(input))
	result := &TurnResult{TurnID: turn.TurnID}

	for {
		reply, err := s.callModel(ctx, turn.TurnID, history, result.Steps+1)
		if err != nil {
			status := domain.TurnStatusFailed
			if errors.Is(err, context.Canceled) {
				status = domain.TurnStatusCancelled
			}
			s.finishTurn(ctx, turn.TurnID, status, "", result.Steps, err)
			return nil, err
		}
		result.Steps++
		history.Append(reply)
		result.Final = reply

		if Route(history) == domain.RouteEnd {
			result.Status = domain.TurnStatusDone
			s.finishTurn(ctx, turn.TurnID, result.Status, reply.Content, result.Steps, nil)
			return result, nil
		}

		for _, call := range reply.ToolCalls {
			res := s.executeToolCall(ctx, turn.TurnID, call)
			history.Append(domain.ToolResultMessage(res.ToolCallID, res.Name, res.Output))
		}

		if result.Steps >= s.maxSteps {
			result.Status = domain.TurnStatusStepLimit
			result.StepLimitReached = true
			s.finishTurn(ctx, turn.TurnID, result.Status, reply.Content, result.Steps, domain.ErrStepLimit)
			return result, nil
		}
	}
}

func (s *Service) callModel(ctx context.Context, turnID string, history *domain.History, step int) (domain.Message, error) {
	req := &llm.ChatRequest{
		Model:       s.config.Model,
		System:      s.profile.SystemPrompt,
		Messages:    history.Messages(),
		Tools:       s.toolSpecs,
		Temperature: s.profile.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	start := time.Now()
	resp, err := s.llmClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Message{}, fmt.Errorf("model call failed: %w", err)
	}

	reply := withToolCallIDs(resp.Message)
	s.recordEvent(ctx, turnID, domain.EventTypeModelCalled, domain.ModelCalledPayload{
		Step:         step,
		Model:        resp.Model,
		LatencyMs:    time.Since(start).Milliseconds(),
		ToolCalls:    len(reply.ToolCalls),
		FinishReason: resp.FinishReason,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})
	for _, call := range reply.ToolCalls {
		s.tracef("[agent] step %d: calling %s %s", step, call.Name, argsJSON(call.Args))
	}
	return reply, nil
}

func (s *Service) finishTurn(ctx context.Context, turnID string, status domain.TurnStatus, output string, steps int, cause error) {
	payload := domain.TurnEndedPayload{Steps: steps}
	if cause != nil {
		payload.Error = cause.Error()
	}
	eventType := domain.EventTypeTurnDone
	switch status {
	case domain.TurnStatusStepLimit:
		eventType = domain.EventTypeTurnStepLimit
	case domain.TurnStatusFailed, domain.TurnStatusCancelled:
		eventType = domain.EventTypeTurnFailed
	}
	s.recordEvent(ctx, turnID, eventType, payload)

	if s.store == nil {
		return
	}
	if err := s.store.CompleteTurn(context.WithoutCancel(ctx), turnID, status, output, steps, time.Now()); err != nil {
		log.Printf("WARN: failed to complete turn %s: %v", turnID, err)
	}
}

// withToolCallIDs fills missing tool call IDs so every result can reference its call.
func withToolCallIDs(m domain.Message) domain.Message {
	if !m.HasToolCalls() {
		return m
	}
	missing := false
	for _, c := range m.ToolCalls {
		if c.ID == "" {
			missing = true
			break
		}
	}
	if !missing {
		return m
	}
	calls := make([]domain.ToolCall, len(m.ToolCalls))
	copy(calls, m.ToolCalls)
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.New().String()
		}
	}
	return domain.AssistantMessage(m.Content, calls...)
}
