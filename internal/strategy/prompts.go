package strategy

import (
	"fmt"
	"strings"
)

// Render produces the model prompt for this strategy. hintLevel is the
// 1-based hint about to be given (current hint counter + 1); it is only
// consulted by HintBased. Rendering is pure; the prompt text is opaque to
// the caller and passed verbatim to the model client.
func (s Strategy) Render(question string, hintLevel int) string {
	switch s {
	case HintBased:
		return renderHint(question, hintLevel)
	case Conceptual:
		return renderConceptual(question)
	case ProblemDecomposition:
		return renderDecomposition(question)
	default:
		return renderSocratic(question)
	}
}

func renderSocratic(question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a Socratic tutor. A student asked: %q\n\n", question)
	b.WriteString(`Instead of providing the answer, ask 2-3 guiding questions that will help the student:
1. Think critically about the problem
2. Break down the concept into smaller parts
3. Discover the answer themselves

Be encouraging and supportive. Focus on understanding, not just the answer.

Your response:`)
	return b.String()
}

// hintIntensity clamps the wording intensity: gentle at level 1, moderate at
// 2, stronger at 3 and beyond.
func hintIntensity(level int) string {
	switch {
	case level <= 1:
		return "gentle"
	case level == 2:
		return "moderate"
	default:
		return "stronger"
	}
}

func renderHint(question string, level int) string {
	if level < 1 {
		level = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful tutor providing hints. A student asked: %q\n\n", question)
	fmt.Fprintf(&b, "This is hint level %d of 3. Provide a %s hint that:\n", level, hintIntensity(level))
	b.WriteString(`1. Points the student in the right direction
2. Does NOT give the complete answer
3. Encourages them to think about specific aspects
4. Builds on previous hints if this isn't the first hint

Be supportive and explain WHY this hint matters.

Your hint:`)
	return b.String()
}

func renderConceptual(question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a concept-focused tutor. A student asked: %q\n\n", question)
	b.WriteString(`Instead of solving their specific problem:
1. Explain the underlying concepts and principles involved
2. Provide a similar but DIFFERENT example to illustrate the concept
3. Help them understand the "why" behind the topic
4. Do NOT solve their specific question

Be clear and thorough in explaining the concepts.

Your explanation:`)
	return b.String()
}

func renderDecomposition(question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a tutor focused on problem-solving methodology. A student asked: %q\n\n", question)
	b.WriteString(`Help them by:
1. Breaking down the problem into smaller, manageable steps
2. Explaining what they should consider for EACH step
3. NOT solving any step, but showing them the approach
4. Teaching them the problem-solving process

Focus on the methodology, not the answer.

Your guidance:`)
	return b.String()
}
