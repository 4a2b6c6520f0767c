package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/agentloop/config"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
	"github.com/xiaot623/gogo/agentloop/tests/helpers"
)

type recordingApprover struct {
	allow    bool
	err      error
	requests []ApprovalRequest
}

func (a *recordingApprover) Approve(_ context.Context, req ApprovalRequest) (bool, error) {
	a.requests = append(a.requests, req)
	return a.allow, a.err
}

func terminalProfile() *config.Profile {
	return &config.Profile{Name: "terminal", Tools: []string{domain.ToolRunTerminalCommand}}
}

func shellCall(id, command string) domain.ToolCall {
	return domain.ToolCall{ID: id, Name: domain.ToolRunTerminalCommand, Args: map[string]any{"command": command}}
}

func TestShellToolAllowedByPolicy(t *testing.T) {
	approver := &recordingApprover{}
	env := newTestService(t, terminalProfile(), nil, approver,
		domain.AssistantMessage("", shellCall("c1", "echo hello")),
		domain.AssistantMessage("It printed hello."),
	)
	history := domain.NewHistory()

	_, err := env.svc.RunTurn(context.Background(), history, "say hello")
	require.NoError(t, err)

	out := history.Messages()[2].Content
	assert.Contains(t, out, "Exit Code: 0")
	assert.Contains(t, out, "hello")
	assert.Empty(t, approver.requests, "read-only commands need no approval")
}

func TestShellToolBlockedByPolicy(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	env := newTestService(t, terminalProfile(), store, &recordingApprover{allow: true},
		domain.AssistantMessage("", shellCall("c1", "rm -rf important")),
		domain.AssistantMessage("I was not allowed to delete it."),
	)
	require.NoError(t, os.Mkdir(filepath.Join(env.workDir, "important"), 0o755))
	history := domain.NewHistory()

	res, err := env.svc.RunTurn(context.Background(), history, "delete important")
	require.NoError(t, err)

	assert.Contains(t, history.Messages()[2].Content, "blocked by policy")
	_, statErr := os.Stat(filepath.Join(env.workDir, "important"))
	assert.NoError(t, statErr, "blocked command must not run")

	tc, err := store.GetToolCall(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.ToolCallStatusBlocked, tc.Status)
	assert.Equal(t, domain.PolicyBlock, tc.Decision)

	events, err := store.GetEvents(context.Background(), res.TurnID, 0, []string{string(domain.EventTypePolicyDecision)}, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestShellToolApproval(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		approver := &recordingApprover{allow: true}
		env := newTestService(t, terminalProfile(), nil, approver,
			domain.AssistantMessage("", shellCall("c1", "mkdir demo")),
			domain.AssistantMessage("Created demo."),
		)
		history := domain.NewHistory()

		_, err := env.svc.RunTurn(context.Background(), history, "make demo")
		require.NoError(t, err)

		require.Len(t, approver.requests, 1)
		assert.Equal(t, "mkdir demo", approver.requests[0].Command)
		assert.Contains(t, history.Messages()[2].Content, "Exit Code: 0")
		info, err := os.Stat(filepath.Join(env.workDir, "demo"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("declined", func(t *testing.T) {
		env := newTestService(t, terminalProfile(), nil, &recordingApprover{allow: false},
			domain.AssistantMessage("", shellCall("c1", "mkdir demo")),
			domain.AssistantMessage("Okay, I did not create it."),
		)
		history := domain.NewHistory()

		_, err := env.svc.RunTurn(context.Background(), history, "make demo")
		require.NoError(t, err)

		assert.Equal(t, "Error: the user declined to run run_terminal_command.", history.Messages()[2].Content)
		_, statErr := os.Stat(filepath.Join(env.workDir, "demo"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("approver error", func(t *testing.T) {
		env := newTestService(t, terminalProfile(), nil, &recordingApprover{allow: true, err: errors.New("stdin closed")},
			domain.AssistantMessage("", shellCall("c1", "mkdir demo")),
			domain.AssistantMessage("ok"),
		)
		history := domain.NewHistory()

		_, err := env.svc.RunTurn(context.Background(), history, "make demo")
		require.NoError(t, err)
		assert.Contains(t, history.Messages()[2].Content, "declined")
	})
}

func TestShellToolFailingCommand(t *testing.T) {
	env := newTestService(t, terminalProfile(), nil, &recordingApprover{allow: true},
		domain.AssistantMessage("", shellCall("c1", "ls /definitely/missing/path")),
		domain.AssistantMessage("That path does not exist."),
	)
	history := domain.NewHistory()

	_, err := env.svc.RunTurn(context.Background(), history, "list it")
	require.NoError(t, err)

	out := history.Messages()[2].Content
	assert.NotContains(t, out, "Exit Code: 0")
	assert.Contains(t, out, "--- STDERR ---\nls:")
}

func TestToolPanicIsReported(t *testing.T) {
	env := newTestService(t, mathProfile(), nil, nil)
	env.svc.offered["boom"] = true
	require.NoError(t, env.svc.tools.Register(domain.ToolSpec{Name: "boom"}, func(context.Context, map[string]any) (string, error) {
		panic("kaboom")
	}))

	res := env.svc.executeToolCall(context.Background(), "t", domain.ToolCall{ID: "c", Name: "boom"})
	assert.Equal(t, domain.ToolCallStatusFailed, res.Status)
	assert.Contains(t, res.Output, "kaboom")
}

func TestNoPolicyEngineAllowsEverything(t *testing.T) {
	env := newTestService(t, terminalProfile(), nil, nil)
	env.svc.policyEngine = nil

	decision, _ := env.svc.checkPolicy(context.Background(), shellCall("c", "rm -rf x"), "rm -rf x")
	assert.Equal(t, domain.PolicyAllow, decision)
}
