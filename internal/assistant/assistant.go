// Package assistant orchestrates one tutoring conversation: the
// interception chain, question classification, strategy selection, the
// model call, progress fan-out, and best-effort remote sync.
package assistant

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/studypal/internal/chain"
	"github.com/abhisek/studypal/internal/classify"
	"github.com/abhisek/studypal/internal/llm"
	"github.com/abhisek/studypal/internal/progress"
	"github.com/abhisek/studypal/internal/remote"
	"github.com/abhisek/studypal/internal/store"
	"github.com/abhisek/studypal/internal/strategy"
)

// Options configures a new Assistant. Provider is required; everything
// else has a working zero value.
type Options struct {
	Provider llm.Provider

	// Remote enables best-effort backend sync when non-nil and enabled.
	Remote *remote.Client

	// EventRepo enables local event persistence when non-nil.
	EventRepo store.EventRepo

	// ProgressLog, when set, appends JSON-lines progress events to a file.
	ProgressLog string

	// Console mirrors progress events to stderr when true.
	Console bool

	// Host and Model label status output. Defaults come from the LLM
	// defaults when empty.
	Host  string
	Model string

	MaxHints    int           // default chain.DefaultMaxHints
	Timeout     time.Duration // default 60s
	Temperature float64       // default 0.7
	MaxTokens   int           // default 1024
	MaxContext  int           // default 2048
}

// Answer is the outcome of one turn.
type Answer struct {
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	QuestionType string    `json:"question_type,omitempty"`
	Strategy     string    `json:"strategy,omitempty"`
	HintCount    int       `json:"hint_count,omitempty"`
	Handler      string    `json:"handler,omitempty"`
	RequiresAI   bool      `json:"requires_ai"`
	Timestamp    time.Time `json:"timestamp"`
	Error        string    `json:"error,omitempty"`
}

// Assistant runs a single tutoring conversation. Not safe for concurrent
// use: each conversation owns its Assistant.
type Assistant struct {
	provider llm.Provider
	remote   *remote.Client
	chain    *chain.Chain
	tracker  *progress.Tracker

	analytics  *progress.Analytics
	remoteSink *progress.RemoteSink

	state    SessionState
	override strategy.Strategy // empty = no override

	host  string
	model string

	maxHints    int
	timeout     time.Duration
	temperature float64
	maxTokens   int
	maxContext  int
}

// New assembles an Assistant with the standard chain and sinks. The
// Analytics sink is always attached; file, console, store, and remote
// sinks follow the options. Remote session creation is best effort.
func New(ctx context.Context, opts Options) (*Assistant, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("assistant: provider is required")
	}

	a := &Assistant{
		provider:    opts.Provider,
		remote:      opts.Remote,
		chain:       chain.Default(),
		tracker:     progress.NewTracker(),
		analytics:   progress.NewAnalytics(),
		host:        opts.Host,
		model:       opts.Model,
		maxHints:    opts.MaxHints,
		timeout:     opts.Timeout,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		maxContext:  opts.MaxContext,
	}
	if a.maxHints <= 0 {
		a.maxHints = chain.DefaultMaxHints
	}
	if a.timeout <= 0 {
		a.timeout = 60 * time.Second
	}
	if a.temperature == 0 {
		a.temperature = 0.7
	}
	if a.maxTokens <= 0 {
		a.maxTokens = 1024
	}
	if a.maxContext <= 0 {
		a.maxContext = 2048
	}

	a.tracker.Attach(a.analytics)

	if opts.ProgressLog != "" {
		if fl, err := progress.NewFileLog(opts.ProgressLog); err != nil {
			fmt.Fprintf(os.Stderr, "warning: progress log disabled: %v\n", err)
		} else {
			a.tracker.Attach(fl)
		}
	}
	if opts.Console {
		a.tracker.Attach(progress.NewConsole(os.Stderr))
	}
	if opts.EventRepo != nil {
		a.tracker.Attach(progress.NewStoreSink(opts.EventRepo))
	}

	var remoteSessionID string
	if opts.Remote.Enabled() {
		id, err := opts.Remote.CreateSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: remote session not created: %v\n", err)
		} else {
			remoteSessionID = id
			a.remoteSink = progress.NewRemoteSink(opts.Remote, id)
			a.tracker.Attach(a.remoteSink)
		}
	}

	a.state = newSessionState(remoteSessionID)
	return a, nil
}

// SessionID returns the local session identifier.
func (a *Assistant) SessionID() string {
	return a.tracker.SessionID()
}

// State returns a copy of the current session state.
func (a *Assistant) State() SessionState {
	s := a.state
	s.History = append([]Turn(nil), a.state.History...)
	return s
}

// ProcessQuestion runs one question through the full pipeline. Model
// failures degrade into user-facing response text; the only error-like
// outcome is context cancellation, surfaced in the metadata.
func (a *Assistant) ProcessQuestion(ctx context.Context, question string) *Answer {
	flags := chain.Flags{
		HintRequested: a.state.HintRequested,
		HintCount:     a.state.HintCount,
		MaxHints:      a.maxHints,
	}
	res := a.chain.Run(question, &flags)
	a.state.HintRequested = flags.HintRequested

	if !res.RequiresAI {
		a.state.HintRequested = false
		return &Answer{
			Response: res.Response,
			Metadata: Metadata{
				Handler:   res.Handler,
				Timestamp: time.Now(),
			},
		}
	}

	qt := classify.Detect(question)
	strat := a.selectStrategy(qt)

	hintLevel := 0
	if a.state.HintRequested {
		hintLevel = a.state.HintCount + 1
	}
	prompt := strat.Render(question, hintLevel)

	response, cancelled := a.generate(ctx, prompt)
	if cancelled {
		// Discard the turn entirely: no notification, no history, no
		// counter movement.
		a.state.HintRequested = false
		return &Answer{
			Metadata: Metadata{
				QuestionType: string(qt),
				Strategy:     strat.DisplayName(),
				Handler:      res.Handler,
				RequiresAI:   true,
				Timestamp:    time.Now(),
				Error:        "cancelled",
			},
		}
	}

	a.tracker.LogQuestion(question, string(qt), strat.DisplayName())

	a.state.LastQuestion = question
	if a.state.HintRequested {
		a.state.HintCount++
		a.tracker.LogHintRequest(question, a.state.HintCount)
	}

	a.state.History = append(a.state.History, Turn{
		Question:  question,
		Response:  response,
		Strategy:  strat.DisplayName(),
		Timestamp: time.Now(),
	})

	a.mirrorTurn(ctx, question, response, string(qt), strat.DisplayName())

	answer := &Answer{
		Response: response,
		Metadata: Metadata{
			QuestionType: string(qt),
			Strategy:     strat.DisplayName(),
			HintCount:    a.state.HintCount,
			Handler:      res.Handler,
			RequiresAI:   true,
			Timestamp:    time.Now(),
		},
	}
	a.state.HintRequested = false
	return answer
}

// RequestHint replays the last question as a hint turn. Without a prior
// question it returns a fixed prompt and changes nothing.
func (a *Assistant) RequestHint(ctx context.Context) *Answer {
	if a.state.LastQuestion == "" {
		return &Answer{
			Response: noQuestionMessage,
			Metadata: Metadata{
				Timestamp: time.Now(),
				Error:     "no_previous_question",
			},
		}
	}

	a.state.HintRequested = true
	return a.ProcessQuestion(ctx, a.state.LastQuestion)
}

// OverrideStrategy pins a strategy for subsequent model turns and emits a
// strategy change event. The hint flag still outranks the override.
func (a *Assistant) OverrideStrategy(s strategy.Strategy) {
	old := a.override
	if old == "" {
		old = "automatic"
	}
	a.override = s
	a.tracker.LogStrategyChange(old.DisplayName(), s.DisplayName())
}

// ClearStrategyOverride returns strategy selection to the classifier.
func (a *Assistant) ClearStrategyOverride() {
	a.override = ""
}

// SessionStats returns the in-process analytics counters.
func (a *Assistant) SessionStats() progress.Stats {
	return a.analytics.Stats()
}

// ResetSession ends the remote session with final stats, opens a fresh
// one, and zeroes all local state. Remote failures are logged and
// ignored.
func (a *Assistant) ResetSession(ctx context.Context) {
	if a.remote.Enabled() && a.state.RemoteSessionID != "" {
		stats := a.SessionStats()
		err := a.remote.EndSession(ctx, a.state.RemoteSessionID, remote.SessionStats{
			TotalQuestions: stats.TotalQuestions,
			HintsRequested: stats.HintsRequested,
			ByType:         stats.QuestionsByType,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: remote session not ended: %v\n", err)
		}
	}

	var remoteSessionID string
	if a.remote.Enabled() {
		id, err := a.remote.CreateSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: remote session not created: %v\n", err)
		} else {
			remoteSessionID = id
			if a.remoteSink != nil {
				a.remoteSink.SetSessionID(id)
			}
		}
	}

	a.state = newSessionState(remoteSessionID)
	a.override = ""
	a.analytics.Reset()
}

// ModelStatus describes the model backend for status output.
type ModelStatus struct {
	Available bool     `json:"available"`
	Host      string   `json:"host,omitempty"`
	Model     string   `json:"model"`
	Models    []string `json:"models"`
	Message   string   `json:"message"`
}

// CheckModel probes the model backend.
func (a *Assistant) CheckModel(ctx context.Context) ModelStatus {
	model := a.model
	if model == "" {
		model = a.provider.ModelID()
	}

	st := ModelStatus{Host: a.host, Model: model, Models: []string{}}
	if !llm.ProbeAvailable(ctx, a.provider) {
		st.Message = unavailableMessage(a.host, model)
		return st
	}

	st.Available = true
	st.Message = fmt.Sprintf("✅ Connected to AI backend (%s)", model)
	if models, err := llm.ProbeModels(ctx, a.provider); err == nil {
		st.Models = models
	}
	return st
}

// RemoteStatus describes the remote backend for status output.
type RemoteStatus struct {
	Available bool   `json:"available"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// CheckRemote probes the remote persistence backend.
func (a *Assistant) CheckRemote(ctx context.Context) RemoteStatus {
	st := a.remote.TestConnection(ctx)
	return RemoteStatus{
		Available: st.Connected,
		SessionID: a.state.RemoteSessionID,
		Message:   st.Message,
	}
}

func (a *Assistant) selectStrategy(qt classify.QuestionType) strategy.Strategy {
	if a.state.HintRequested {
		return strategy.HintBased
	}
	if a.override != "" {
		return a.override
	}
	return strategy.Select(qt, false)
}

// generate runs the model call under the configured timeout. cancelled
// reports that the caller's context was cancelled and the turn must be
// discarded.
func (a *Assistant) generate(ctx context.Context, prompt string) (response string, cancelled bool) {
	callCtx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "tutor"), a.timeout)
	defer cancel()

	resp, err := a.provider.Generate(callCtx, llm.Request{
		System:      strategy.SystemMessage,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		MaxContext:  a.maxContext,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", true
		}
		msg, ok := userFacingError(err)
		if !ok {
			return "", true
		}
		return msg, false
	}
	return resp.Text, false
}

// mirrorTurn saves both sides of the exchange to the remote backend,
// best effort.
func (a *Assistant) mirrorTurn(ctx context.Context, question, response, questionType, strategyName string) {
	if !a.remote.Enabled() || a.state.RemoteSessionID == "" {
		return
	}

	err := a.remote.SaveConversationTurn(ctx, a.state.RemoteSessionID, "user", question,
		map[string]any{"question_type": questionType})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: remote conversation sync failed: %v\n", err)
	}
	err = a.remote.SaveConversationTurn(ctx, a.state.RemoteSessionID, "assistant", response,
		map[string]any{"strategy": strategyName, "hint_count": a.state.HintCount})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: remote conversation sync failed: %v\n", err)
	}
}
