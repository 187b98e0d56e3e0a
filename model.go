package parlance

//go:generate mockgen -source=model.go -destination=./mocks/parlance.go

import "context"

// ModelClient is the boundary to a chat-based language model. Invoke sends the
// prompt to the model and returns its raw response. A nil result without an
// error means the provider returned no data.
type ModelClient interface {
	Invoke(context.Context, PromptMessages) (*ModelResult, error)
}

// ModelFunc allows ordinary functions to be used as a [ModelClient].
type ModelFunc func(context.Context, PromptMessages) (*ModelResult, error)

// Invoke calls fn(ctx, msgs).
func (fn ModelFunc) Invoke(ctx context.Context, msgs PromptMessages) (*ModelResult, error) {
	return fn(ctx, msgs)
}

// ModelResult is the raw, structured response of a language model.
type ModelResult struct {
	// Content is the text content of the response message.
	Content string `json:"content"`

	// Parts holds the text parts of a multi-part response. Providers that
	// answer with a single string leave it empty.
	Parts []string `json:"parts,omitempty"`

	// Model is the model that produced the response, as reported by the
	// provider.
	Model string `json:"model,omitempty"`

	// FinishReason is the provider's reason for ending generation.
	FinishReason string `json:"finish_reason,omitempty"`

	Usage Usage `json:"usage"`
}

// Usage reports the tokens consumed by a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// OutputParser reduces a [ModelResult] to displayable plain text. An empty
// string means no text could be extracted.
type OutputParser interface {
	Parse(context.Context, *ModelResult) (string, error)
}
