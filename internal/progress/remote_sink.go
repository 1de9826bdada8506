package progress

import (
	"context"
	"time"

	"github.com/abhisek/studypal/internal/remote"
)

// RemoteSink mirrors progress events to the remote backend. It is bound
// to the remote session id, which differs from the local session id the
// tracker stamps on events.
type RemoteSink struct {
	client    *remote.Client
	sessionID string
	timeout   time.Duration
}

// NewRemoteSink creates a sink forwarding to the given remote session.
func NewRemoteSink(client *remote.Client, sessionID string) *RemoteSink {
	return &RemoteSink{client: client, sessionID: sessionID, timeout: 5 * time.Second}
}

func (s *RemoteSink) Name() string { return "remote" }

// SetSessionID rebinds the sink to a new remote session, used when the
// conversation is reset.
func (s *RemoteSink) SetSessionID(id string) { s.sessionID = id }

func (s *RemoteSink) Update(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Questions have their own table; everything else lands in the generic
	// progress event log.
	switch ev.Type {
	case EventQuestionAsked:
		return s.client.LogQuestion(ctx, s.sessionID, remote.QuestionRecord{
			Question:     ev.Question,
			QuestionType: ev.QuestionType,
			Strategy:     ev.Strategy,
		})
	case EventHintRequested:
		return s.client.LogProgressEvent(ctx, s.sessionID, string(ev.Type), map[string]any{
			"question":    ev.Question,
			"hint_number": ev.HintNumber,
		})
	default:
		return s.client.LogProgressEvent(ctx, s.sessionID, string(ev.Type), map[string]any{
			"local_session_id": ev.SessionID,
			"timestamp":        ev.Timestamp.Format(time.RFC3339),
			"old_strategy":     ev.OldStrategy,
			"new_strategy":     ev.NewStrategy,
			"summary":          ev.Summary,
		})
	}
}
