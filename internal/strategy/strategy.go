// Package strategy defines the closed set of tutoring strategies and the
// policy that picks one for a classified question.
package strategy

import (
	"github.com/abhisek/studypal/internal/classify"
)

// Strategy is a named, stateless prompt-shaping policy. The set is closed:
// dispatch happens by tag, not by open subclassing.
type Strategy string

const (
	Socratic             Strategy = "socratic"
	HintBased            Strategy = "hint_based"
	Conceptual           Strategy = "conceptual"
	ProblemDecomposition Strategy = "problem_decomposition"
)

// DisplayName returns the human-readable strategy name used in metadata,
// events, and persisted records.
func (s Strategy) DisplayName() string {
	switch s {
	case Socratic:
		return "Socratic Method"
	case HintBased:
		return "Hint-Based Learning"
	case Conceptual:
		return "Conceptual Understanding"
	case ProblemDecomposition:
		return "Problem Decomposition"
	}
	return string(s)
}

// typeMap maps every QuestionType to a strategy. The map must stay total over
// classify.Types().
var typeMap = map[classify.QuestionType]Strategy{
	classify.Conceptual:     Conceptual,
	classify.Why:            Socratic,
	classify.HowTo:          ProblemDecomposition,
	classify.Comparison:     Conceptual,
	classify.ProblemSolving: ProblemDecomposition,
	classify.General:        Socratic,
}

// Select maps (question type, hint flag) to a strategy. The hint flag takes
// absolute precedence over the question type.
func Select(qt classify.QuestionType, hintRequested bool) Strategy {
	if hintRequested {
		return HintBased
	}
	if s, ok := typeMap[qt]; ok {
		return s
	}
	return Socratic
}

// SystemMessage is the fixed system instruction sent with every rendered
// prompt. It forbids direct homework answers regardless of strategy.
const SystemMessage = `You are an educational AI assistant focused on helping students LEARN, not just get answers.

Core principles:
1. NEVER provide direct answers to homework or test questions
2. Guide students through Socratic questioning
3. Provide hints that lead to understanding, not solutions
4. Encourage critical thinking and problem-solving skills
5. Be supportive and encouraging
6. Explain concepts, but don't solve specific problems for them

Remember: The goal is LEARNING, not just completing assignments.`
