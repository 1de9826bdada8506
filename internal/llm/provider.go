package llm

import "context"

// Provider is the core abstraction for model interaction. Consumers send a
// prompt and receive free text; tutoring prompts never request structured
// output.
type Provider interface {
	// Generate sends a prompt to the model and returns the response text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Prober is implemented by providers that can report availability, such as a
// local Ollama server. Decorators forward it when the wrapped provider
// implements it.
type Prober interface {
	// Available reports whether the backing service is reachable.
	Available(ctx context.Context) bool

	// ListModels returns the model identifiers the backing service offers.
	ListModels(ctx context.Context) ([]string, error)
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation. For tutoring prompts this is a single
	// user message containing the rendered strategy prompt.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// MaxContext is the context window hint for providers that accept one
	// (Ollama's num_ctx). Zero means provider default.
	MaxContext int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the generated response text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ProbeAvailable reports availability for any provider: true when the
// provider implements Prober and its service responds, true unconditionally
// for providers without a probe (remote SDKs surface failures per-request).
func ProbeAvailable(ctx context.Context, p Provider) bool {
	if prober, ok := p.(Prober); ok {
		return prober.Available(ctx)
	}
	return true
}

// ProbeModels lists models for providers that support it; nil otherwise.
func ProbeModels(ctx context.Context, p Provider) ([]string, error) {
	if prober, ok := p.(Prober); ok {
		return prober.ListModels(ctx)
	}
	return nil, nil
}
