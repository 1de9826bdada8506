package progress

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recordingSink struct {
	name   string
	events []Event
	err    error
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Update(e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestNotify_StampsSessionAndTime(t *testing.T) {
	tr := NewTracker()
	sink := &recordingSink{name: "rec"}
	tr.Attach(sink)

	tr.LogQuestion("What is gravity?", "conceptual", "Conceptual Understanding")

	if len(sink.events) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.events))
	}
	e := sink.events[0]
	if e.SessionID != tr.SessionID() {
		t.Errorf("event session id = %q, want %q", e.SessionID, tr.SessionID())
	}
	if e.Timestamp.IsZero() {
		t.Error("event timestamp not stamped")
	}
	if e.Type != EventQuestionAsked || e.QuestionType != "conceptual" {
		t.Errorf("unexpected event payload: %+v", e)
	}
}

// A failing sink must not stop delivery to later sinks, and Notify must not
// surface the failure.
func TestNotify_SinkFailureIsolated(t *testing.T) {
	tr := NewTracker()
	failing := &recordingSink{name: "failing", err: errors.New("disk full")}
	healthy := &recordingSink{name: "healthy"}
	tr.Attach(failing)
	tr.Attach(healthy)

	tr.LogHintRequest("Solve 2x = 10", 1)

	if len(failing.events) != 1 {
		t.Errorf("failing sink got %d events, want 1", len(failing.events))
	}
	if len(healthy.events) != 1 {
		t.Errorf("healthy sink got %d events, want 1 (delivery stopped)", len(healthy.events))
	}
}

func TestAttach_Deduplicates(t *testing.T) {
	tr := NewTracker()
	sink := &recordingSink{name: "rec"}
	tr.Attach(sink)
	tr.Attach(sink)

	tr.LogQuestion("q", "general", "Socratic Method")
	if len(sink.events) != 1 {
		t.Errorf("got %d deliveries, want 1 (double attach)", len(sink.events))
	}
}

func TestDetach_StopsDelivery(t *testing.T) {
	tr := NewTracker()
	sink := &recordingSink{name: "rec"}
	tr.Attach(sink)
	tr.Detach(sink)

	tr.LogQuestion("q", "general", "Socratic Method")
	if len(sink.events) != 0 {
		t.Errorf("detached sink received %d events", len(sink.events))
	}
}

func TestNotify_AttachmentOrder(t *testing.T) {
	tr := NewTracker()
	var order []string
	first := &orderSink{name: "first", order: &order}
	second := &orderSink{name: "second", order: &order}
	tr.Attach(first)
	tr.Attach(second)

	tr.LogStrategyChange("Socratic Method", "Hint-Based Learning")

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

type orderSink struct {
	name  string
	order *[]string
}

func (o *orderSink) Name() string { return o.name }

func (o *orderSink) Update(Event) error {
	*o.order = append(*o.order, o.name)
	return nil
}

func TestAnalytics_Counters(t *testing.T) {
	a := NewAnalytics()
	tr := NewTracker()
	tr.Attach(a)

	tr.LogQuestion("What is gravity?", "conceptual", "Conceptual Understanding")
	tr.LogQuestion("Solve 2x = 10", "problem", "Problem Decomposition")
	tr.LogQuestion("Why does ice float?", "why", "Socratic Method")
	tr.LogHintRequest("Solve 2x = 10", 1)
	tr.LogHintRequest("Solve 2x = 10", 2)

	stats := a.Stats()
	if stats.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", stats.TotalQuestions)
	}
	if stats.HintsRequested != 2 {
		t.Errorf("HintsRequested = %d, want 2", stats.HintsRequested)
	}
	if stats.QuestionsByType["conceptual"] != 1 || stats.QuestionsByType["problem"] != 1 {
		t.Errorf("QuestionsByType = %v", stats.QuestionsByType)
	}
	if stats.StrategiesUsed["Socratic Method"] != 1 {
		t.Errorf("StrategiesUsed = %v", stats.StrategiesUsed)
	}
	if stats.SessionStart.IsZero() {
		t.Error("SessionStart not set")
	}
}

func TestAnalytics_StatsReturnsCopy(t *testing.T) {
	a := NewAnalytics()
	a.Update(Event{Type: EventQuestionAsked, QuestionType: "general", Strategy: "Socratic Method"})

	stats := a.Stats()
	stats.QuestionsByType["general"] = 99

	if got := a.Stats().QuestionsByType["general"]; got != 1 {
		t.Errorf("internal counter mutated through returned copy: %d", got)
	}
}

func TestAnalytics_Reset(t *testing.T) {
	a := NewAnalytics()
	a.Update(Event{Type: EventQuestionAsked, QuestionType: "general", Strategy: "Socratic Method"})
	a.Update(Event{Type: EventHintRequested, HintNumber: 1})

	a.Reset()

	stats := a.Stats()
	if stats.TotalQuestions != 0 || stats.HintsRequested != 0 {
		t.Errorf("stats not zeroed after reset: %+v", stats)
	}
	if len(stats.QuestionsByType) != 0 || len(stats.StrategiesUsed) != 0 {
		t.Errorf("maps not cleared after reset: %+v", stats)
	}
}

func TestFileLog_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "progress.ndjson")
	sink, err := NewFileLog(path)
	if err != nil {
		t.Fatalf("NewFileLog: %v", err)
	}

	tr := NewTracker()
	tr.Attach(sink)
	tr.LogQuestion("What is gravity?", "conceptual", "Conceptual Understanding")
	tr.LogHintRequest("What is gravity?", 1)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if lines[0].Type != EventQuestionAsked || lines[1].Type != EventHintRequested {
		t.Errorf("unexpected event order: %v, %v", lines[0].Type, lines[1].Type)
	}
	if lines[1].HintNumber != 1 {
		t.Errorf("hint number = %d, want 1", lines[1].HintNumber)
	}
}

func TestConsole_Format(t *testing.T) {
	var buf strings.Builder
	sink := NewConsole(&buf)

	err := sink.Update(Event{
		Type:      EventQuestionAsked,
		Timestamp: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Summary:   "Question: What is gravity?...",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := buf.String()
	want := "[2025-03-01 10:30:00] question_asked: Question: What is gravity?...\n"
	if got != want {
		t.Errorf("console line = %q, want %q", got, want)
	}
}
