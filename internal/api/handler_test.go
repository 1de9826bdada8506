package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhisek/studypal/internal/assistant"
	"github.com/abhisek/studypal/internal/llm"
)

func newTestServer(t *testing.T) (*httptest.Server, *llm.MockProvider) {
	t.Helper()

	mock := llm.NewMockProvider(llm.MockResponse{Text: "a guiding question"})
	mock.Repeat = true

	a, err := assistant.New(context.Background(), assistant.Options{Provider: mock})
	if err != nil {
		t.Fatalf("assistant.New: %v", err)
	}

	srv := httptest.NewServer(NewHandler(a).Routes())
	t.Cleanup(srv.Close)
	return srv, mock
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestPostQuestion(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/question", `{"question": "What is photosynthesis?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ans assistant.Answer
	decode(t, resp, &ans)
	if ans.Response != "a guiding question" {
		t.Errorf("response = %q", ans.Response)
	}
	if ans.Metadata.QuestionType != "conceptual" {
		t.Errorf("question_type = %q, want conceptual", ans.Metadata.QuestionType)
	}
}

func TestPostQuestionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/question", `{"question": ""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty question: status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/question", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", resp.StatusCode)
	}
}

func TestPostHintFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	// A hint before any question gets the guidance message.
	resp := postJSON(t, srv.URL+"/api/hint", "")
	var ans assistant.Answer
	decode(t, resp, &ans)
	if ans.Metadata.Error != "no_previous_question" {
		t.Errorf("error = %q, want no_previous_question", ans.Metadata.Error)
	}

	postJSON(t, srv.URL+"/api/question", `{"question": "What is photosynthesis?"}`)

	resp = postJSON(t, srv.URL+"/api/hint", "")
	decode(t, resp, &ans)
	if ans.Metadata.Strategy != "Hint-Based Learning" {
		t.Errorf("strategy = %q, want Hint-Based Learning", ans.Metadata.Strategy)
	}
	if ans.Metadata.HintCount != 1 {
		t.Errorf("hint_count = %d, want 1", ans.Metadata.HintCount)
	}
}

func TestPostStrategy(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/strategy", `{"strategy": "socratic"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ans assistant.Answer
	q := postJSON(t, srv.URL+"/api/question", `{"question": "What is photosynthesis?"}`)
	decode(t, q, &ans)
	if ans.Metadata.Strategy != "Socratic Method" {
		t.Errorf("strategy = %q, want pinned Socratic Method", ans.Metadata.Strategy)
	}

	resp = postJSON(t, srv.URL+"/api/strategy", `{"strategy": "mind_reading"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown strategy: status = %d, want 400", resp.StatusCode)
	}

	// Empty strategy clears the override.
	resp = postJSON(t, srv.URL+"/api/strategy", `{"strategy": ""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: status = %d, want 200", resp.StatusCode)
	}
	q = postJSON(t, srv.URL+"/api/question", `{"question": "What is photosynthesis?"}`)
	decode(t, q, &ans)
	if ans.Metadata.Strategy != "Conceptual Understanding" {
		t.Errorf("strategy after clear = %q", ans.Metadata.Strategy)
	}
}

func TestStatsAndReset(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/question", `{"question": "What is photosynthesis?"}`)
	postJSON(t, srv.URL+"/api/question", `{"question": "Why is the sky blue?"}`)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	defer resp.Body.Close()

	var stats map[string]any
	decode(t, resp, &stats)
	if stats["total_questions"].(float64) != 2 {
		t.Errorf("total_questions = %v, want 2", stats["total_questions"])
	}

	postJSON(t, srv.URL+"/api/reset", "")

	resp, err = http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET stats after reset: %v", err)
	}
	defer resp.Body.Close()
	decode(t, resp, &stats)
	if stats["total_questions"].(float64) != 0 {
		t.Errorf("total_questions after reset = %v, want 0", stats["total_questions"])
	}
}

func TestGetStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()

	var st statusResponse
	decode(t, resp, &st)
	if !st.Model.Available {
		t.Error("model reported unavailable with a live mock")
	}
	if st.Remote.Available {
		t.Error("remote reported available with no backend configured")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
