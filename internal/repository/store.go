// Package repository defines the journal storage interface and its SQLite implementation.
package repository

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// Store defines the interface for journal persistence.
// The turn loop only writes; the HTTP viewer only reads.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context, limit int) ([]domain.Session, error)

	// Turn operations
	CreateTurn(ctx context.Context, turn *domain.Turn) error
	GetTurn(ctx context.Context, turnID string) (*domain.Turn, error)
	ListTurns(ctx context.Context, sessionID string) ([]domain.Turn, error)
	CompleteTurn(ctx context.Context, turnID string, status domain.TurnStatus, output string, steps int, endedAt time.Time) error

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, turnID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Tool call operations
	CreateToolCall(ctx context.Context, toolCall *domain.ToolCallRecord) error
	GetToolCall(ctx context.Context, toolCallID string) (*domain.ToolCallRecord, error)
	ListToolCalls(ctx context.Context, turnID string) ([]domain.ToolCallRecord, error)

	Close() error
}
