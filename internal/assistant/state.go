package assistant

import "time"

// Turn is one completed question/response exchange.
type Turn struct {
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Strategy  string    `json:"strategy"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is the per-conversation mutable state. A single goroutine
// owns it; there is no cross-session sharing.
type SessionState struct {
	// LastQuestion is the most recent question that reached the chain,
	// including "hint". It is what RequestHint replays.
	LastQuestion string

	// HintCount is the number of hints consumed this session.
	HintCount int

	// History is the append-only conversation log. Canned chain responses
	// and discarded turns are not recorded.
	History []Turn

	// HintRequested marks the current turn as a hint turn. Transient:
	// cleared at the end of every turn.
	HintRequested bool

	// RemoteSessionID is the backend session id, empty when the remote
	// client is disabled or session creation failed.
	RemoteSessionID string
}

func newSessionState(remoteSessionID string) SessionState {
	return SessionState{RemoteSessionID: remoteSessionID}
}
