// Package policy decides whether a tool call may run, needs approval, or is blocked.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// Input is the document a policy is evaluated against.
type Input struct {
	ToolName string         `json:"tool_name"`
	Args     map[string]any `json:"args"`
	Command  string         `json:"command,omitempty"`
	Shell    bool           `json:"shell"`
	WorkDir  string         `json:"workdir,omitempty"`
	Profile  string         `json:"profile,omitempty"`
}

// Result is a policy decision with an optional reason.
type Result struct {
	Decision domain.PolicyDecision
	Reason   string
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
// The module must define data.tool_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// LoadModule returns the policy at path, or DefaultPolicy when path is empty.
func LoadModule(path string) (string, error) {
	if path == "" {
		return DefaultPolicy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read policy file: %w", err)
	}
	return string(data), nil
}

// Evaluate checks the tool policy.
// The decision may be a bare string or an object {"decision": ..., "reason": ...}.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Result, error) {
	if input.Args == nil {
		input.Args = map[string]any{}
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Result{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// Undefined decision: the policy has no default, so fail closed.
		return Result{Decision: domain.PolicyRequireApproval, Reason: "no policy decision"}, nil
	}

	switch v := results[0].Expressions[0].Value.(type) {
	case string:
		return parseDecision(v, "")
	case map[string]interface{}:
		d, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		return parseDecision(d, reason)
	default:
		return Result{}, fmt.Errorf("unexpected policy result type %T", v)
	}
}

func parseDecision(d, reason string) (Result, error) {
	switch decision := domain.PolicyDecision(d); decision {
	case domain.PolicyAllow, domain.PolicyRequireApproval, domain.PolicyBlock:
		return Result{Decision: decision, Reason: reason}, nil
	default:
		return Result{}, fmt.Errorf("unknown policy decision %q", d)
	}
}
