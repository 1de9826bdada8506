package progress

import (
	"context"
	"time"

	"github.com/abhisek/studypal/internal/store"
)

// StoreSink persists progress events to the local event store.
type StoreSink struct {
	repo    store.EventRepo
	timeout time.Duration
}

// NewStoreSink creates a sink writing to the given repo.
func NewStoreSink(repo store.EventRepo) *StoreSink {
	return &StoreSink{repo: repo, timeout: 5 * time.Second}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Update(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.repo.AppendProgressEvent(ctx, store.ProgressEventData{
		SessionID:    ev.SessionID,
		EventType:    string(ev.Type),
		Question:     ev.Question,
		QuestionType: ev.QuestionType,
		Strategy:     ev.Strategy,
		HintNumber:   ev.HintNumber,
		Summary:      ev.Summary,
	})
}
