package chain

import (
	"fmt"
	"strings"
)

var greetings = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

const welcomeResponse = `Hello! I'm your AI Study Assistant! 👋

I'm here to help you LEARN, not just get answers. I'll guide you through:
- Understanding concepts deeply
- Breaking down complex problems
- Thinking critically about questions

What would you like to learn about today?`

// GreetingHandler answers greetings and small talk with a canned welcome.
type GreetingHandler struct{}

func (h *GreetingHandler) Name() string { return "GreetingHandler" }

func (h *GreetingHandler) Handle(question string, _ *Flags) (Result, bool) {
	q := strings.TrimSpace(strings.ToLower(question))
	for _, g := range greetings {
		if greetingPrefix(q, g) {
			return Result{Response: welcomeResponse, Handler: h.Name()}, true
		}
	}
	return Result{}, false
}

// greetingPrefix matches g at the start of q on a word boundary, so "hi
// there!" greets but "hint" does not.
func greetingPrefix(q, g string) bool {
	if !strings.HasPrefix(q, g) {
		return false
	}
	rest := q[len(g):]
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9')
}

var helpPhrases = []string{"help", "/help", "how does this work", "what can you do"}

const helpResponse = `**How I Help You Learn:**

🧠 **Socratic Method**: I ask guiding questions to help you think critically
💡 **Hints**: I provide progressive hints (type "hint" to get one)
📚 **Concept Explanation**: I explain underlying principles
🔍 **Problem Decomposition**: I help break complex problems into steps

**Tips:**
- Ask your question naturally
- If stuck, ask for a "hint"
- I won't give direct answers - that's the point!
- The more you engage, the more you learn

**Example Questions:**
- "I don't understand how photosynthesis works"
- "Can you help me with quadratic equations?"
- "Why does this Python code give an error?"

What would you like to learn?`

// HelpCommandHandler answers exact help phrases with a capability summary.
type HelpCommandHandler struct{}

func (h *HelpCommandHandler) Name() string { return "HelpCommandHandler" }

func (h *HelpCommandHandler) Handle(question string, _ *Flags) (Result, bool) {
	q := strings.TrimSpace(strings.ToLower(question))
	for _, p := range helpPhrases {
		if q == p {
			return Result{Response: helpResponse, Handler: h.Name()}, true
		}
	}
	return Result{}, false
}

var directAnswerPhrases = []string{
	"give me the answer",
	"what is the answer",
	"just tell me",
	"i give up",
	"show me the solution",
	"solve it for me",
}

const redirectResponse = `I understand you're struggling, but giving you the direct answer won't help you learn! 🎓

Instead, let me help you work through this step by step. Learning happens when you engage with the material.

Would you like me to:
1. Break down the problem into smaller steps?
2. Give you a hint to point you in the right direction?
3. Explain the underlying concept with a different example?

You've got this! 💪`

// DirectAnswerDetector catches "give me the answer"-style requests and
// redirects the student back to learning.
type DirectAnswerDetector struct{}

func (h *DirectAnswerDetector) Name() string { return "DirectAnswerDetector" }

func (h *DirectAnswerDetector) Handle(question string, _ *Flags) (Result, bool) {
	q := strings.ToLower(question)
	for _, p := range directAnswerPhrases {
		if strings.Contains(q, p) {
			return Result{Response: redirectResponse, Handler: h.Name()}, true
		}
	}
	return Result{}, false
}

var hintPhrases = []string{"hint", "give me a hint", "i need a hint", "show hint"}

// HintRequestHandler marks hint turns and enforces the hint ceiling.
// It fires on an explicit hint phrase, or when the hint flag was already set
// by RequestHint re-running the last question. Under the ceiling it sets the
// transient flag and defers so the model generates the hint; at the ceiling it
// short-circuits with a change-of-approach response.
type HintRequestHandler struct{}

func (h *HintRequestHandler) Name() string { return "HintRequestHandler" }

func (h *HintRequestHandler) Handle(question string, flags *Flags) (Result, bool) {
	q := strings.TrimSpace(strings.ToLower(question))

	matched := flags.HintRequested
	if !matched {
		for _, p := range hintPhrases {
			if q == p {
				matched = true
				break
			}
		}
	}
	if !matched {
		return Result{}, false
	}

	flags.HintRequested = true

	max := flags.MaxHints
	if max <= 0 {
		max = DefaultMaxHints
	}
	if flags.HintCount >= max {
		return Result{Response: hintLimitResponse(max), Handler: h.Name()}, true
	}

	return Result{}, false
}

func hintLimitResponse(max int) string {
	return fmt.Sprintf(`You've used all %d hints! At this point, let's try a different approach.

Would you like me to:
1. Explain the underlying concept?
2. Show you a similar but different example?
3. Break down the problem-solving approach?

Sometimes stepping back helps more than another hint!`, max)
}

// LearningQuestionHandler is the terminal fallthrough: everything that
// reaches it goes to the model-assisted path. It must be last in the chain.
type LearningQuestionHandler struct{}

func (h *LearningQuestionHandler) Name() string { return "LearningQuestionHandler" }

func (h *LearningQuestionHandler) Handle(_ string, _ *Flags) (Result, bool) {
	return Result{RequiresAI: true, Handler: h.Name()}, true
}
