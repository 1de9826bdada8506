// Package chain implements the ordered interception chain that disposes of
// questions cheaply before any classification or model call happens.
package chain

// Flags carries the per-turn session flags the chain reads and writes.
// Only the hint handler mutates them.
type Flags struct {
	// HintRequested marks the current turn as a hint turn. It is transient:
	// the orchestrator clears it at the end of every turn.
	HintRequested bool

	// HintCount is the number of hints already consumed this session.
	HintCount int

	// MaxHints is the hint ceiling. Zero means DefaultMaxHints.
	MaxHints int
}

// DefaultMaxHints is the code-enforced hint ceiling.
const DefaultMaxHints = 3

// Result is the terminal outcome of running the chain for one question.
type Result struct {
	// Response is the canned response text. Empty when RequiresAI is true.
	Response string

	// RequiresAI reports whether the model-assisted path must fill in the
	// response. When false, Response is always present.
	RequiresAI bool

	// Handler names the link that produced this result.
	Handler string
}

// Handler is one link in the chain. It either produces the terminal result
// (ok=true) or defers to the next link (ok=false).
type Handler interface {
	Name() string
	Handle(question string, flags *Flags) (Result, bool)
}

// Chain is an ordered sequence of handlers. Order is semantically
// load-bearing: more specific handlers must precede more general ones, and
// the final handler always matches.
type Chain struct {
	handlers []Handler
}

// New creates a chain from handlers evaluated in the given order.
func New(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Default returns the standard five-link chain:
// greeting → help → direct-answer redirect → hint ceiling → learning fallthrough.
func Default() *Chain {
	return New(
		&GreetingHandler{},
		&HelpCommandHandler{},
		&DirectAnswerDetector{},
		&HintRequestHandler{},
		&LearningQuestionHandler{},
	)
}

// Run walks the chain in order and returns the first terminal result.
// Exactly one link produces the terminal result for any question; the final
// fallthrough link guarantees that.
func (c *Chain) Run(question string, flags *Flags) Result {
	for _, h := range c.handlers {
		if res, ok := h.Handle(question, flags); ok {
			return res
		}
	}
	// Unreachable with a correctly assembled chain; kept total for callers
	// that build custom chains.
	return Result{RequiresAI: true, Handler: "LearningQuestionHandler"}
}
