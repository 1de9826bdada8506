// Package progress implements the fan-out broadcaster that pushes tutoring
// events to independently-failing sinks.
package progress

import (
	"fmt"
	"time"
)

// EventType identifies the kind of progress event.
type EventType string

const (
	EventQuestionAsked   EventType = "question_asked"
	EventHintRequested   EventType = "hint_requested"
	EventStrategyChanged EventType = "strategy_changed"
)

// Event is an immutable fact about a tutoring turn. The tracker stamps
// SessionID and Timestamp on delivery; events are never mutated afterwards.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`

	// question_asked payload.
	Question     string `json:"question,omitempty"`
	QuestionType string `json:"question_type,omitempty"`
	Strategy     string `json:"strategy,omitempty"`

	// hint_requested payload (Question is shared with question_asked).
	HintNumber int `json:"hint_number,omitempty"`

	// strategy_changed payload.
	OldStrategy string `json:"old_strategy,omitempty"`
	NewStrategy string `json:"new_strategy,omitempty"`

	// Summary is a short human-readable line for console-style sinks.
	Summary string `json:"summary,omitempty"`
}

func questionSummary(question string) string {
	const max = 50
	if len(question) > max {
		question = question[:max]
	}
	return fmt.Sprintf("Question: %s...", question)
}
