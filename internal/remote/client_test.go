package remote

import (
	"context"
	"errors"
	"testing"
)

func TestDisabledClient(t *testing.T) {
	c, err := Open(Config{UserID: "anonymous"})
	if err != nil {
		t.Fatalf("Open with empty DSN: %v", err)
	}
	if c.Enabled() {
		t.Fatal("Enabled = true with empty DSN")
	}

	ctx := context.Background()

	if _, err := c.CreateSession(ctx); !errors.Is(err, ErrDisabled) {
		t.Errorf("CreateSession err = %v, want ErrDisabled", err)
	}
	if err := c.SaveConversationTurn(ctx, "s", "user", "hi", nil); !errors.Is(err, ErrDisabled) {
		t.Errorf("SaveConversationTurn err = %v, want ErrDisabled", err)
	}
	if err := c.LogQuestion(ctx, "s", QuestionRecord{Question: "q"}); !errors.Is(err, ErrDisabled) {
		t.Errorf("LogQuestion err = %v, want ErrDisabled", err)
	}
	if err := c.LogProgressEvent(ctx, "s", "question_asked", nil); !errors.Is(err, ErrDisabled) {
		t.Errorf("LogProgressEvent err = %v, want ErrDisabled", err)
	}
	if err := c.EndSession(ctx, "s", SessionStats{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("EndSession err = %v, want ErrDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on disabled client: %v", err)
	}
}

func TestDisabledClientStatus(t *testing.T) {
	c, err := Open(Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	st := c.TestConnection(context.Background())
	if st.Enabled || st.Connected {
		t.Errorf("status = %+v, want disabled and disconnected", st)
	}
	if st.Message == "" {
		t.Error("status message should explain why the backend is off")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Enabled() {
		t.Fatal("nil client reports Enabled")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYPAL_DATABASE_URL", "postgres://u:p@localhost:5432/studypal")
	t.Setenv("STUDYPAL_REMOTE_USER", "alice")

	cfg := ConfigFromEnv()
	if cfg.DSN != "postgres://u:p@localhost:5432/studypal" {
		t.Errorf("DSN = %q", cfg.DSN)
	}
	if cfg.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", cfg.UserID)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("STUDYPAL_DATABASE_URL", "")
	t.Setenv("STUDYPAL_REMOTE_USER", "")

	cfg := ConfigFromEnv()
	if cfg.DSN != "" {
		t.Errorf("DSN = %q, want empty", cfg.DSN)
	}
	if cfg.UserID != "anonymous" {
		t.Errorf("UserID = %q, want anonymous", cfg.UserID)
	}
}
