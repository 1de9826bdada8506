package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTagsAndGenerateServer(t *testing.T, generateStatus int, response string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "phi3:mini"}, {"name": "llama3:8b"}},
		})
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad generate payload: %v", err)
		}
		if req.Stream {
			t.Error("generate request has stream=true, want false")
		}
		if generateStatus != http.StatusOK {
			w.WriteHeader(generateStatus)
			return
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Response:        response,
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOllama(t *testing.T, host string) *OllamaProvider {
	t.Helper()
	p, err := NewOllamaProvider(OllamaConfig{Host: host, Model: "phi3:mini"})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	return p
}

func TestOllamaGenerate(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusOK, "  Think about buoyancy first.  ")
	p := newTestOllama(t, srv.URL)

	resp, err := p.Generate(context.Background(), Request{
		System:      "system message",
		Messages:    []Message{{Role: RoleUser, Content: "prompt"}},
		Temperature: 0.7,
		MaxContext:  2048,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "Think about buoyancy first." {
		t.Errorf("Text = %q, want trimmed response", resp.Text)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("TotalTokens = %d, want 30", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("StopReason = %q, want end", resp.StopReason)
	}
}

func TestOllamaGenerate_ModelNotFound(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusNotFound, "")
	p := newTestOllama(t, srv.URL)

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
	var notFound *ErrModelNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
	if notFound.Model != "phi3:mini" {
		t.Errorf("missing model = %q, want phi3:mini", notFound.Model)
	}
}

func TestOllamaGenerate_ServerError(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusInternalServerError, "")
	p := newTestOllama(t, srv.URL)

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestOllamaGenerate_ConnectionRefused(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusOK, "x")
	srv.Close()
	p := newTestOllama(t, srv.URL)

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestOllamaAvailable(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusOK, "x")
	p := newTestOllama(t, srv.URL)

	if !p.Available(context.Background()) {
		t.Error("Available = false against a live server")
	}

	srv.Close()
	if p.Available(context.Background()) {
		t.Error("Available = true against a closed server")
	}
}

func TestOllamaListModels(t *testing.T) {
	srv := newTagsAndGenerateServer(t, http.StatusOK, "x")
	p := newTestOllama(t, srv.URL)

	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0] != "phi3:mini" {
		t.Errorf("models = %v, want [phi3:mini llama3:8b]", models)
	}
}

func TestFlattenMessages(t *testing.T) {
	single := flattenMessages([]Message{{Role: RoleUser, Content: "just this"}})
	if single != "just this" {
		t.Errorf("single message flatten = %q", single)
	}

	multi := flattenMessages([]Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
	})
	want := "[user]\nfirst\n\n[assistant]\nsecond"
	if multi != want {
		t.Errorf("multi flatten = %q, want %q", multi, want)
	}
}
