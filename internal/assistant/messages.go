package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studypal/internal/llm"
)

// Student-facing fallback strings for model failures. A broken model must
// degrade the turn, not abort it.
const (
	timeoutMessage = "⏱️ The response took too long. Try asking a simpler question or breaking it into parts."

	noQuestionMessage = "Please ask a question first, then I can provide hints!"
)

// userFacingError converts a model error into the string shown to the
// student. Returns ok=false for context cancellation, which discards the
// turn instead of degrading it.
func userFacingError(err error) (msg string, ok bool) {
	if errors.Is(err, context.Canceled) {
		return "", false
	}

	var timeout *llm.ErrTimeout
	if errors.As(err, &timeout) || errors.Is(err, context.DeadlineExceeded) {
		return timeoutMessage, true
	}

	var notFound *llm.ErrModelNotFound
	if errors.As(err, &notFound) {
		return fmt.Sprintf("❌ Model '%s' not found. Please run: ollama pull %s",
			notFound.Model, notFound.Model), true
	}

	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) && truncated.Text != "" {
		// A truncated answer is still useful to the student.
		return truncated.Text, true
	}

	return fmt.Sprintf("❌ Error connecting to AI service: %v", err), true
}

// unavailableMessage is the status line shown when the model backend
// cannot be reached.
func unavailableMessage(host, model string) string {
	return fmt.Sprintf(`❌ AI backend not available!

Please ensure:
1. The model backend is installed and running
2. Run: ollama pull %s
3. The service is accessible at %s`, model, host)
}
