package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypal/internal/store"
)

func TestLoggingProviderRecordsEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer s.Close()

	mock := NewMockProvider(
		MockResponse{Text: "first answer"},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, s.EventRepo())

	ctx := WithPurpose(context.Background(), "tutor")

	resp, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "q1"}}})
	require.NoError(t, err)
	assert.Equal(t, "first answer", resp.Text)

	_, err = p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "q2"}}})
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first: the failed call.
	assert.False(t, events[0].Success)
	assert.Contains(t, events[0].ErrorMessage, "unavailable")
	assert.Equal(t, "tutor", events[0].Purpose)

	assert.True(t, events[1].Success)
	assert.Equal(t, "mock", events[1].Model)
	assert.Equal(t, "tutor", events[1].Purpose)
}

func TestLoggingProviderForwardsProbes(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer s.Close()

	mock := NewMockProvider()
	p := WithLogging(mock, s.EventRepo())

	assert.True(t, ProbeAvailable(context.Background(), p))
	mock.SetAvailable(false)
	assert.False(t, ProbeAvailable(context.Background(), p))
}
