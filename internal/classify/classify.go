package classify

import "strings"

// QuestionType is the closed classification tag assigned to a student question.
type QuestionType string

const (
	Conceptual     QuestionType = "conceptual" // "What is...?", "Explain..."
	ProblemSolving QuestionType = "problem"    // math, coding problems
	HowTo          QuestionType = "how_to"     // "How do I...?"
	Why            QuestionType = "why"        // "Why does...?"
	Comparison     QuestionType = "comparison" // "What's the difference...?"
	General        QuestionType = "general"    // default
)

// Types lists every QuestionType. Strategy selection must be total over this set.
func Types() []QuestionType {
	return []QuestionType{Conceptual, ProblemSolving, HowTo, Why, Comparison, General}
}

var conceptualCues = []string{"what is", "define", "explain", "describe"}

var howToCues = []string{"how do i", "how to", "how can i", "steps to"}

var comparisonCues = []string{"difference between", "compare", "versus", "vs"}

var problemCues = []string{"solve", "calculate", "compute", "find the", "answer", "=", "+", "-", "*", "/"}

// Detect assigns exactly one QuestionType to a question using ordered keyword
// rules. First match wins: conceptual cues are checked before comparison cues,
// so "What is the difference between X and Y" classifies as Conceptual. The
// ordering is load-bearing.
func Detect(question string) QuestionType {
	q := strings.ToLower(question)

	if containsAny(q, conceptualCues) {
		return Conceptual
	}

	if strings.HasPrefix(q, "why") || strings.Contains(q, "why does") || strings.Contains(q, "why is") {
		return Why
	}

	if containsAny(q, howToCues) {
		return HowTo
	}

	if containsAny(q, comparisonCues) {
		return Comparison
	}

	if containsAny(q, problemCues) {
		return ProblemSolving
	}

	return General
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
