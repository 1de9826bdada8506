package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // filter by session (progress events only)
}

// ProgressEventData captures one progress event for persistence.
type ProgressEventData struct {
	SessionID    string
	EventType    string
	Question     string
	QuestionType string
	Strategy     string
	HintNumber   int
	Summary      string
}

// ProgressEvent is a persisted progress event row.
type ProgressEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	ProgressEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a persisted LLM request event row.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// SessionAggregate summarizes persisted progress events across sessions.
type SessionAggregate struct {
	TotalQuestions  int
	HintsRequested  int
	QuestionsByType map[string]int
	StrategiesUsed  map[string]int
	Sessions        int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendProgressEvent records a tutoring progress event.
	AppendProgressEvent(ctx context.Context, data ProgressEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryProgressEvents returns progress events, newest first.
	QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEvent, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// Aggregate computes totals across all persisted progress events.
	Aggregate(ctx context.Context) (*SessionAggregate, error)
}
