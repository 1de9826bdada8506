package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Sink consumes progress events. Update may fail; the tracker isolates that
// failure from other sinks and from the caller.
type Sink interface {
	Name() string
	Update(event Event) error
}

// Tracker broadcasts events to an ordered set of attached sinks.
//
// Delivery is synchronous and in attachment order. A sink error is logged and
// swallowed at the sink boundary: it never stops delivery to later sinks and
// never reaches the caller of Notify. Each conversation owns its own Tracker;
// no cross-session sharing.
type Tracker struct {
	sessionID string
	sinks     []Sink
	now       func() time.Time
}

// NewTracker creates a tracker with a fresh session id and no sinks.
func NewTracker() *Tracker {
	return &Tracker{
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// SessionID returns the tracker's session identifier.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Attach adds a sink. A sink already attached is not added twice.
func (t *Tracker) Attach(s Sink) {
	for _, existing := range t.sinks {
		if existing == s {
			return
		}
	}
	t.sinks = append(t.sinks, s)
}

// Detach removes a sink. Unknown sinks are ignored.
func (t *Tracker) Detach(s Sink) {
	for i, existing := range t.sinks {
		if existing == s {
			t.sinks = append(t.sinks[:i], t.sinks[i+1:]...)
			return
		}
	}
}

// Notify stamps the event with the session id and current time, then delivers
// it to every attached sink in attachment order.
func (t *Tracker) Notify(event Event) {
	event.SessionID = t.sessionID
	event.Timestamp = t.now()

	for _, s := range t.sinks {
		if err := s.Update(event); err != nil {
			fmt.Fprintf(os.Stderr, "warning: progress sink %s failed: %v\n", s.Name(), err)
		}
	}
}

// LogQuestion emits a question_asked event.
func (t *Tracker) LogQuestion(question, questionType, strategyName string) {
	t.Notify(Event{
		Type:         EventQuestionAsked,
		Question:     question,
		QuestionType: questionType,
		Strategy:     strategyName,
		Summary:      questionSummary(question),
	})
}

// LogHintRequest emits a hint_requested event with the post-increment count.
func (t *Tracker) LogHintRequest(question string, hintNumber int) {
	t.Notify(Event{
		Type:       EventHintRequested,
		Question:   question,
		HintNumber: hintNumber,
		Summary:    fmt.Sprintf("Hint %d requested", hintNumber),
	})
}

// LogStrategyChange emits a strategy_changed event. Emitted only on explicit
// strategy override, not on ordinary per-question switches.
func (t *Tracker) LogStrategyChange(oldStrategy, newStrategy string) {
	t.Notify(Event{
		Type:        EventStrategyChanged,
		OldStrategy: oldStrategy,
		NewStrategy: newStrategy,
		Summary:     fmt.Sprintf("Changed from %s to %s", oldStrategy, newStrategy),
	})
}
