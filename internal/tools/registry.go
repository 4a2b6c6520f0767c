package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// ExecutorFunc defines a local tool executor. The returned text is fed back to the model.
type ExecutorFunc func(ctx context.Context, args map[string]any) (string, error)

type entry struct {
	spec domain.ToolSpec
	exec ExecutorFunc
}

// Registry stores tool executors keyed by tool name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates an empty tool executor registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds a new executor for a tool.
func (r *Registry) Register(spec domain.ToolSpec, exec ExecutorFunc) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[spec.Name]; exists {
		return fmt.Errorf("executor already registered for %s", spec.Name)
	}
	r.entries[spec.Name] = entry{spec: spec, exec: exec}
	return nil
}

// Execute runs the executor for the tool name.
func (r *Registry) Execute(ctx context.Context, toolName string, args map[string]any) (string, error) {
	if toolName == "" {
		return "", fmt.Errorf("tool name is required: %w", domain.ErrInvalidArgument)
	}
	r.mu.RLock()
	e, ok := r.entries[toolName]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no executor registered for %s: %w", toolName, domain.ErrUnknownTool)
	}
	if args == nil {
		args = map[string]any{}
	}
	return e.exec(ctx, args)
}

// Specs returns the specs for the named tools in the given order.
// It fails if any name is not registered, so a profile can never advertise a tool it cannot run.
func (r *Registry) Specs(names []string) ([]domain.ToolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]domain.ToolSpec, 0, len(names))
	for _, name := range names {
		e, ok := r.entries[name]
		if !ok {
			return nil, fmt.Errorf("tool %q: %w", name, domain.ErrUnknownTool)
		}
		specs = append(specs, e.spec)
	}
	return specs, nil
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
