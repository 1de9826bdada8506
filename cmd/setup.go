package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypal/internal/assistant"
	"github.com/abhisek/studypal/internal/llm"
	"github.com/abhisek/studypal/internal/remote"
	"github.com/abhisek/studypal/internal/store"
)

// session bundles everything a command needs to run one conversation.
type session struct {
	Assistant *assistant.Assistant
	Store     *store.Store
	Remote    *remote.Client
}

func (s *session) Close() {
	if s.Remote != nil {
		if err := s.Remote.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing remote client: %v\n", err)
		}
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing store: %v\n", err)
		}
	}
}

// newSession wires the store, model provider, remote client, and
// assistant from flags and environment.
func newSession(ctx context.Context, cmd *cobra.Command, console bool) (*session, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		s.Close()
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, llmCfg, s.EventRepo())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("initialize model provider: %w", err)
	}

	rc, err := remote.Open(remote.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: remote backend disabled: %v\n", err)
		rc, _ = remote.Open(remote.Config{})
	}
	if rc.Enabled() {
		if err := rc.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	a, err := assistant.New(ctx, assistant.Options{
		Provider:    provider,
		Remote:      rc,
		EventRepo:   s.EventRepo(),
		ProgressLog: os.Getenv("STUDYPAL_PROGRESS_LOG"),
		Console:     console,
		Host:        llmCfg.Ollama.Host,
		Model:       modelName(llmCfg),
		Timeout:     llmCfg.Timeout,
		Temperature: llmCfg.Temperature,
		MaxTokens:   llmCfg.MaxTokens,
		MaxContext:  llmCfg.MaxContext,
	})
	if err != nil {
		rc.Close()
		s.Close()
		return nil, err
	}

	return &session{Assistant: a, Store: s, Remote: rc}, nil
}

func modelName(cfg llm.Config) string {
	switch cfg.Provider {
	case "anthropic":
		return cfg.Anthropic.Model
	case "openai":
		return cfg.OpenAI.Model
	case "gemini":
		return cfg.Gemini.Model
	default:
		return cfg.Ollama.Model
	}
}
