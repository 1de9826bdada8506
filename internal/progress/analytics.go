package progress

import (
	"sync"
	"time"
)

// Stats is a point-in-time copy of session analytics.
type Stats struct {
	TotalQuestions  int            `json:"total_questions"`
	HintsRequested  int            `json:"hints_requested"`
	QuestionsByType map[string]int `json:"questions_by_type"`
	StrategiesUsed  map[string]int `json:"strategies_used"`
	SessionStart    time.Time      `json:"session_start"`
}

// Analytics aggregates session statistics in process. It is the
// always-attached sink: Update never fails, and counters are guarded so a
// single Analytics instance may be shared across orchestrators.
type Analytics struct {
	mu    sync.Mutex
	stats Stats
}

// NewAnalytics creates an Analytics sink with the session clock started.
func NewAnalytics() *Analytics {
	return &Analytics{
		stats: Stats{
			QuestionsByType: make(map[string]int),
			StrategiesUsed:  make(map[string]int),
			SessionStart:    time.Now(),
		},
	}
}

func (a *Analytics) Name() string { return "Analytics" }

func (a *Analytics) Update(event Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch event.Type {
	case EventQuestionAsked:
		a.stats.TotalQuestions++
		a.stats.QuestionsByType[event.QuestionType]++
		a.stats.StrategiesUsed[event.Strategy]++
	case EventHintRequested:
		a.stats.HintsRequested++
	}
	return nil
}

// Stats returns a copy of the current session statistics.
func (a *Analytics) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.stats
	out.QuestionsByType = make(map[string]int, len(a.stats.QuestionsByType))
	for k, v := range a.stats.QuestionsByType {
		out.QuestionsByType[k] = v
	}
	out.StrategiesUsed = make(map[string]int, len(a.stats.StrategiesUsed))
	for k, v := range a.stats.StrategiesUsed {
		out.StrategiesUsed[k] = v
	}
	return out
}

// Reset zeroes all counters and restarts the session clock.
func (a *Analytics) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats = Stats{
		QuestionsByType: make(map[string]int),
		StrategiesUsed:  make(map[string]int),
		SessionStart:    time.Now(),
	}
}
