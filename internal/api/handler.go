// Package api exposes one tutoring conversation over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/studypal/internal/assistant"
	"github.com/abhisek/studypal/internal/strategy"
)

// Handler serves the tutoring endpoints. It wraps a single Assistant, so
// the server hosts exactly one conversation at a time; requests are
// serialized because the assistant is not concurrency-safe.
type Handler struct {
	assistant *assistant.Assistant
	sem       chan struct{}
}

// NewHandler creates a Handler around the given assistant.
func NewHandler(a *assistant.Assistant) *Handler {
	return &Handler{
		assistant: a,
		sem:       make(chan struct{}, 1),
	}
}

// Routes builds the chi router with all tutoring endpoints mounted.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/question", h.PostQuestion)
		r.Post("/hint", h.PostHint)
		r.Post("/strategy", h.PostStrategy)
		r.Post("/reset", h.PostReset)
		r.Get("/stats", h.GetStats)
		r.Get("/status", h.GetStatus)
	})
	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// lock serializes access to the assistant for the request's lifetime.
func (h *Handler) lock() func() {
	h.sem <- struct{}{}
	return func() { <-h.sem }
}

type questionRequest struct {
	Question string `json:"question"`
}

// PostQuestion runs one question through the tutoring pipeline.
func (h *Handler) PostQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		Error(w, http.StatusBadRequest, "question is required")
		return
	}

	defer h.lock()()
	ans := h.assistant.ProcessQuestion(r.Context(), req.Question)
	if ans.Metadata.Error == "cancelled" {
		// Client went away mid-generation.
		slog.Info("question cancelled", "question", req.Question)
		return
	}

	slog.Info("question processed",
		"handler", ans.Metadata.Handler,
		"question_type", ans.Metadata.QuestionType,
		"strategy", ans.Metadata.Strategy)
	JSON(w, http.StatusOK, ans)
}

// PostHint replays the last question as a hint turn.
func (h *Handler) PostHint(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()
	ans := h.assistant.RequestHint(r.Context())
	if ans.Metadata.Error == "cancelled" {
		return
	}
	JSON(w, http.StatusOK, ans)
}

type strategyRequest struct {
	// Strategy pins a tutoring strategy; empty clears the override.
	Strategy string `json:"strategy"`
}

// PostStrategy pins or clears the strategy override.
func (h *Handler) PostStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	defer h.lock()()
	if req.Strategy == "" {
		h.assistant.ClearStrategyOverride()
		JSON(w, http.StatusOK, map[string]string{"strategy": "automatic"})
		return
	}

	s := strategy.Strategy(req.Strategy)
	switch s {
	case strategy.Socratic, strategy.HintBased, strategy.Conceptual, strategy.ProblemDecomposition:
	default:
		Error(w, http.StatusBadRequest, "unknown strategy: "+req.Strategy)
		return
	}

	h.assistant.OverrideStrategy(s)
	JSON(w, http.StatusOK, map[string]string{"strategy": s.DisplayName()})
}

// PostReset ends the session and starts a fresh one.
func (h *Handler) PostReset(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()
	h.assistant.ResetSession(r.Context())
	slog.Info("session reset", "session_id", h.assistant.SessionID())
	JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// GetStats returns the in-process session statistics.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()
	JSON(w, http.StatusOK, h.assistant.SessionStats())
}

type statusResponse struct {
	Model  assistant.ModelStatus  `json:"model"`
	Remote assistant.RemoteStatus `json:"remote"`
}

// GetStatus probes the model and remote backends.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()
	JSON(w, http.StatusOK, statusResponse{
		Model:  h.assistant.CheckModel(r.Context()),
		Remote: h.assistant.CheckRemote(r.Context()),
	})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
