package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			profile TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, started_at)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			turn_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT,
			FOREIGN KEY (turn_id) REFERENCES turns(turn_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn_id, ts)`,
		`CREATE TABLE IF NOT EXISTS tool_calls (
			record_id TEXT PRIMARY KEY,
			tool_call_id TEXT NOT NULL,
			turn_id TEXT NOT NULL,
			tool_name TEXT NOT NULL,
			status TEXT NOT NULL,
			decision TEXT NOT NULL,
			args TEXT,
			output TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			FOREIGN KEY (turn_id) REFERENCES turns(turn_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_calls_turn ON tool_calls(turn_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_calls_call ON tool_calls(tool_call_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// seq orders events written within the same millisecond.
	return s.ensureColumn("events", "seq", `ALTER TABLE events ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`)
}

func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, profile, provider, model, created_at) VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.Profile, session.Provider, session.Model, session.CreatedAt)
	return err
}

// GetSession retrieves a session by ID. It returns nil, nil when the session does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, profile, provider, model, created_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.Profile, &session.Provider, &session.Model, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions lists sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	query := `SELECT session_id, profile, provider, model, created_at FROM sessions ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.Profile, &session.Provider, &session.Model, &session.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// CreateTurn creates a new turn.
func (s *SQLiteStore) CreateTurn(ctx context.Context, turn *domain.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, session_id, input, status, steps, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		turn.TurnID, turn.SessionID, turn.Input, turn.Status, turn.Steps, turn.StartedAt)
	return err
}

const turnColumns = `turn_id, session_id, input, output, status, steps, started_at, ended_at`

func scanTurn(scan func(dest ...any) error) (*domain.Turn, error) {
	var turn domain.Turn
	var output sql.NullString
	var endedAt sql.NullTime
	if err := scan(&turn.TurnID, &turn.SessionID, &turn.Input, &output, &turn.Status, &turn.Steps, &turn.StartedAt, &endedAt); err != nil {
		return nil, err
	}
	if output.Valid {
		turn.Output = output.String
	}
	if endedAt.Valid {
		turn.EndedAt = &endedAt.Time
	}
	return &turn, nil
}

// GetTurn retrieves a turn by ID. It returns nil, nil when the turn does not exist.
func (s *SQLiteStore) GetTurn(ctx context.Context, turnID string) (*domain.Turn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+turnColumns+` FROM turns WHERE turn_id = ?`, turnID)
	turn, err := scanTurn(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return turn, err
}

// ListTurns lists the turns of a session in order.
func (s *SQLiteStore) ListTurns(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+turnColumns+` FROM turns WHERE session_id = ? ORDER BY started_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		turn, err := scanTurn(rows.Scan)
		if err != nil {
			return nil, err
		}
		turns = append(turns, *turn)
	}
	return turns, rows.Err()
}

// CompleteTurn records the outcome of a turn.
func (s *SQLiteStore) CompleteTurn(ctx context.Context, turnID string, status domain.TurnStatus, output string, steps int, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE turns SET status = ?, output = ?, steps = ?, ended_at = ? WHERE turn_id = ?`,
		status, output, steps, endedAt, turnID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("turn %s not found", turnID)
	}
	return nil
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	var payload sql.NullString
	if len(event.Payload) > 0 {
		payload = sql.NullString{String: string(event.Payload), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, turn_id, ts, type, payload, seq)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE turn_id = ?))`,
		event.EventID, event.TurnID, event.Ts, event.Type, payload, event.TurnID)
	return err
}

// GetEvents retrieves events of a turn in the order they were written.
func (s *SQLiteStore) GetEvents(ctx context.Context, turnID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, turn_id, ts, type, payload FROM events WHERE turn_id = ?`
	args := []interface{}{turnID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND type IN (%s)", strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC, seq ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.TurnID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CreateToolCall records an executed tool call.
func (s *SQLiteStore) CreateToolCall(ctx context.Context, tc *domain.ToolCallRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (record_id, tool_call_id, turn_id, tool_name, status, decision, args, output, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tc.RecordID, tc.ToolCallID, tc.TurnID, tc.ToolName, tc.Status, tc.Decision, nullStringBytes(tc.Args), tc.Output, tc.CreatedAt, tc.CompletedAt)
	return err
}

const toolCallColumns = `record_id, tool_call_id, turn_id, tool_name, status, decision, args, output, created_at, completed_at`

func scanToolCall(scan func(dest ...any) error) (*domain.ToolCallRecord, error) {
	var tc domain.ToolCallRecord
	var args, output sql.NullString
	var completedAt sql.NullTime
	if err := scan(&tc.RecordID, &tc.ToolCallID, &tc.TurnID, &tc.ToolName, &tc.Status, &tc.Decision, &args, &output, &tc.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	if args.Valid {
		tc.Args = json.RawMessage(args.String)
	}
	if output.Valid {
		tc.Output = output.String
	}
	if completedAt.Valid {
		tc.CompletedAt = &completedAt.Time
	}
	return &tc, nil
}

// GetToolCall retrieves the latest record of a model tool call ID. It returns nil, nil when none exists.
// Models may reuse IDs across steps, so the record ID is the only unique key.
func (s *SQLiteStore) GetToolCall(ctx context.Context, toolCallID string) (*domain.ToolCallRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+toolCallColumns+` FROM tool_calls WHERE tool_call_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, toolCallID)
	tc, err := scanToolCall(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return tc, err
}

// ListToolCalls lists the tool calls of a turn in order.
func (s *SQLiteStore) ListToolCalls(ctx context.Context, turnID string) ([]domain.ToolCallRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+toolCallColumns+` FROM tool_calls WHERE turn_id = ? ORDER BY created_at ASC, rowid ASC`, turnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []domain.ToolCallRecord
	for rows.Next() {
		tc, err := scanToolCall(rows.Scan)
		if err != nil {
			return nil, err
		}
		calls = append(calls, *tc)
	}
	return calls, rows.Err()
}

func nullStringBytes(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
