// Package service runs agent turns: model calls, routing and tool execution.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/agentloop/config"
	"github.com/xiaot623/gogo/agentloop/internal/adapter/llm"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
	"github.com/xiaot623/gogo/agentloop/internal/repository"
	"github.com/xiaot623/gogo/agentloop/internal/tools"
	"github.com/xiaot623/gogo/agentloop/policy"
)

// Service drives turns for one session. It is not safe for concurrent turns.
type Service struct {
	store        repository.Store
	llmClient    llm.LLMClient
	tools        *tools.Registry
	policyEngine *policy.Engine
	approver     Approver
	config       *config.Config
	profile      *config.Profile

	toolSpecs []domain.ToolSpec
	offered   map[string]bool
	maxSteps  int
	sessionID string
	trace     io.Writer
}

// New creates a Service for profile. store and policyEngine may be nil: no journal, and every call allowed.
// It fails when the profile names a tool the registry cannot run.
func New(store repository.Store, llmClient llm.LLMClient, registry *tools.Registry, cfg *config.Config, profile *config.Profile, policyEngine *policy.Engine, approver Approver) (*Service, error) {
	if llmClient == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if profile == nil {
		profile = &config.Profile{Name: "default"}
	}
	specs, err := registry.Specs(profile.Tools)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}
	offered := make(map[string]bool, len(specs))
	for _, spec := range specs {
		offered[spec.Name] = true
	}
	if approver == nil {
		approver = StaticApprover{Allow: false}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	return &Service{
		store:        store,
		llmClient:    llmClient,
		tools:        registry,
		policyEngine: policyEngine,
		approver:     approver,
		config:       cfg,
		profile:      profile,
		toolSpecs:    specs,
		offered:      offered,
		maxSteps:     cfg.EffectiveMaxSteps(profile),
		sessionID:    "sess_" + uuid.New().String()[:8],
	}, nil
}

// SetTrace makes the service print each step to w.
func (s *Service) SetTrace(w io.Writer) {
	s.trace = w
}

// SessionID returns the journal ID of this session.
func (s *Service) SessionID() string {
	return s.sessionID
}

// MaxSteps returns the step limit applied to every turn.
func (s *Service) MaxSteps() int {
	return s.maxSteps
}

// StartSession records the session in the journal.
func (s *Service) StartSession(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.CreateSession(ctx, &domain.Session{
		SessionID: s.sessionID,
		Profile:   s.profile.Name,
		Provider:  s.config.Provider,
		Model:     s.config.Model,
		CreatedAt: time.Now(),
	})
}

func (s *Service) tracef(format string, args ...any) {
	if s.trace != nil {
		fmt.Fprintf(s.trace, format+"\n", args...)
	}
}
