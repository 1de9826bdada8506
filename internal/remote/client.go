// Package remote syncs tutoring sessions to a shared Postgres backend.
// Everything here is best effort: the local session keeps working when
// the backend is unreachable, and callers are expected to log failures
// and move on rather than surface them to the student.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Client talks to the remote Postgres backend. A nil or disabled Client
// is safe to call: every method reports ErrDisabled or a zero value.
type Client struct {
	db     *sql.DB
	userID string
}

// ErrDisabled is returned by every mutating method when no DSN is
// configured.
var ErrDisabled = fmt.Errorf("remote backend is disabled")

// Open creates a Client from configuration. With an empty DSN it
// returns a disabled Client rather than an error, so callers can wire
// it unconditionally. The connection itself is lazy; use TestConnection
// to verify reachability.
func Open(cfg Config) (*Client, error) {
	if cfg.DSN == "" {
		return &Client{userID: cfg.UserID}, nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open remote database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Client{db: db, userID: cfg.UserID}, nil
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.db != nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.db.Close()
}

// EnsureSchema creates the remote tables when they are missing. Safe to
// call on every startup.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	const schema = `
create table if not exists sessions (
	id text primary key,
	user_id text not null,
	started_at timestamptz not null,
	ended_at timestamptz,
	status text not null,
	total_questions integer not null default 0,
	total_hints integer not null default 0,
	session_stats jsonb
);
create table if not exists conversations (
	id bigserial primary key,
	session_id text not null references sessions(id),
	role text not null,
	content text not null,
	ts timestamptz not null,
	metadata jsonb
);
create table if not exists questions (
	id bigserial primary key,
	session_id text not null references sessions(id),
	question_text text not null,
	question_type text not null,
	strategy_used text not null,
	ts timestamptz not null,
	metadata jsonb
);
create table if not exists progress_events (
	id bigserial primary key,
	session_id text not null references sessions(id),
	event_type text not null,
	event_data jsonb,
	ts timestamptz not null
);
create table if not exists hints (
	id bigserial primary key,
	session_id text not null references sessions(id),
	question text not null,
	hint_number integer not null,
	hint_content text not null,
	ts timestamptz not null
);`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure remote schema: %w", err)
	}
	return nil
}

// CreateSession registers a new active session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	id := uuid.NewString()
	const q = `insert into sessions (id, user_id, started_at, status)
	           values ($1, $2, $3, 'active')`
	if _, err := c.db.ExecContext(ctx, q, id, c.userID, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// SessionStats carries the final counters for EndSession.
type SessionStats struct {
	TotalQuestions int            `json:"total_questions"`
	HintsRequested int            `json:"hints_requested"`
	ByType         map[string]int `json:"questions_by_type,omitempty"`
	Strategy       string         `json:"current_strategy,omitempty"`
}

// EndSession marks the session completed and records final statistics.
func (c *Client) EndSession(ctx context.Context, sessionID string, stats SessionStats) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	js, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal session stats: %w", err)
	}

	const q = `update sessions
	           set ended_at=$2, status='completed',
	               total_questions=$3, total_hints=$4, session_stats=$5
	           where id=$1`
	if _, err := c.db.ExecContext(ctx, q, sessionID, time.Now().UTC(),
		stats.TotalQuestions, stats.HintsRequested, js); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// QuestionRecord describes a classified question for LogQuestion.
type QuestionRecord struct {
	Question     string `json:"question"`
	QuestionType string `json:"question_type"`
	Strategy     string `json:"strategy"`
	HintLevel    int    `json:"hint_level,omitempty"`
}

// LogQuestion records a student question with its classification.
func (c *Client) LogQuestion(ctx context.Context, sessionID string, rec QuestionRecord) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	js, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal question record: %w", err)
	}

	const q = `insert into questions (session_id, question_text, question_type, strategy_used, ts, metadata)
	           values ($1, $2, $3, $4, $5, $6)`
	if _, err := c.db.ExecContext(ctx, q, sessionID, rec.Question, rec.QuestionType,
		rec.Strategy, time.Now().UTC(), js); err != nil {
		return fmt.Errorf("log question: %w", err)
	}
	return nil
}

// SaveConversationTurn appends one message to the conversation log.
// Role is "user" or "assistant".
func (c *Client) SaveConversationTurn(ctx context.Context, sessionID, role, content string, metadata map[string]any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	js, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal turn metadata: %w", err)
	}

	const q = `insert into conversations (session_id, role, content, ts, metadata)
	           values ($1, $2, $3, $4, $5)`
	if _, err := c.db.ExecContext(ctx, q, sessionID, role, content, time.Now().UTC(), js); err != nil {
		return fmt.Errorf("save conversation turn: %w", err)
	}
	return nil
}

// LogProgressEvent mirrors a local progress event to the backend.
func (c *Client) LogProgressEvent(ctx context.Context, sessionID, eventType string, data map[string]any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	js, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	const q = `insert into progress_events (session_id, event_type, event_data, ts)
	           values ($1, $2, $3, $4)`
	if _, err := c.db.ExecContext(ctx, q, sessionID, eventType, js, time.Now().UTC()); err != nil {
		return fmt.Errorf("log progress event: %w", err)
	}
	return nil
}

// LogHint records a hint delivered to the student.
func (c *Client) LogHint(ctx context.Context, sessionID, question string, hintNumber int, content string) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	const q = `insert into hints (session_id, question, hint_number, hint_content, ts)
	           values ($1, $2, $3, $4, $5)`
	if _, err := c.db.ExecContext(ctx, q, sessionID, question, hintNumber, content, time.Now().UTC()); err != nil {
		return fmt.Errorf("log hint: %w", err)
	}
	return nil
}

// Turn is one stored conversation message.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// ConversationHistory returns up to limit messages for a session,
// oldest first.
func (c *Client) ConversationHistory(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 50
	}

	const q = `select role, content, ts from conversations
	           where session_id=$1 order by ts asc limit $2`
	rows, err := c.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversation history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Role, &t.Content, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan conversation turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Status describes the outcome of a connection test.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// TestConnection pings the backend and reports the result. It never
// returns an error: the status message carries the failure.
func (c *Client) TestConnection(ctx context.Context) Status {
	if !c.Enabled() {
		return Status{Message: "remote backend is disabled or not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return Status{Enabled: true, Message: fmt.Sprintf("connection failed: %v", err)}
	}
	return Status{Enabled: true, Connected: true, Message: "successfully connected to remote backend"}
}
