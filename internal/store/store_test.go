package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndQueryProgressEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []ProgressEventData{
		{SessionID: "s1", EventType: "question_asked", Question: "What is gravity?", QuestionType: "conceptual", Strategy: "Conceptual Understanding"},
		{SessionID: "s1", EventType: "hint_requested", Question: "What is gravity?", HintNumber: 1},
		{SessionID: "s2", EventType: "question_asked", Question: "Solve 2x = 10", QuestionType: "problem", Strategy: "Problem Decomposition"},
	}
	for _, e := range events {
		if err := repo.AppendProgressEvent(ctx, e); err != nil {
			t.Fatalf("AppendProgressEvent: %v", err)
		}
	}

	got, err := repo.QueryProgressEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryProgressEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Newest first.
	if got[0].Question != "Solve 2x = 10" {
		t.Errorf("first event = %q, want newest", got[0].Question)
	}

	bySession, err := repo.QueryProgressEvents(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("QueryProgressEvents(s1): %v", err)
	}
	if len(bySession) != 2 {
		t.Errorf("session filter returned %d events, want 2", len(bySession))
	}
}

func TestSequence_OrdersAcrossEventTypes(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendProgressEvent(ctx, ProgressEventData{SessionID: "s1", EventType: "question_asked"}); err != nil {
		t.Fatalf("AppendProgressEvent: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "ollama", Model: "phi3:mini", Success: true}); err != nil {
		t.Fatalf("AppendLLMRequest: %v", err)
	}
	if err := repo.AppendProgressEvent(ctx, ProgressEventData{SessionID: "s1", EventType: "hint_requested", HintNumber: 1}); err != nil {
		t.Fatalf("AppendProgressEvent: %v", err)
	}

	progress, err := repo.QueryProgressEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryProgressEvents: %v", err)
	}
	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}

	if len(progress) != 2 || len(llm) != 1 {
		t.Fatalf("got %d progress, %d llm events", len(progress), len(llm))
	}
	// The LLM event sits between the two progress events in the global order.
	if !(progress[1].Sequence < llm[0].Sequence && llm[0].Sequence < progress[0].Sequence) {
		t.Errorf("sequence order wrong: progress %d, llm %d, progress %d",
			progress[1].Sequence, llm[0].Sequence, progress[0].Sequence)
	}
}

func TestAggregate(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []ProgressEventData{
		{SessionID: "s1", EventType: "question_asked", QuestionType: "conceptual", Strategy: "Conceptual Understanding"},
		{SessionID: "s1", EventType: "question_asked", QuestionType: "why", Strategy: "Socratic Method"},
		{SessionID: "s1", EventType: "hint_requested", HintNumber: 1},
		{SessionID: "s2", EventType: "question_asked", QuestionType: "conceptual", Strategy: "Conceptual Understanding"},
	}
	for _, e := range data {
		if err := repo.AppendProgressEvent(ctx, e); err != nil {
			t.Fatalf("AppendProgressEvent: %v", err)
		}
	}

	agg, err := repo.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", agg.TotalQuestions)
	}
	if agg.HintsRequested != 1 {
		t.Errorf("HintsRequested = %d, want 1", agg.HintsRequested)
	}
	if agg.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", agg.Sessions)
	}
	if agg.QuestionsByType["conceptual"] != 2 {
		t.Errorf("QuestionsByType = %v", agg.QuestionsByType)
	}
	if agg.StrategiesUsed["Socratic Method"] != 1 {
		t.Errorf("StrategiesUsed = %v", agg.StrategiesUsed)
	}
}

func TestQueryLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for range 5 {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Success: true}); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}
