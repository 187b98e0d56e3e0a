// Package openai provides a [parlance.ModelClient] backed by the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modernice/parlance"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the chat model used when no Model option is given.
	DefaultModel = openai.GPT4

	// DefaultTemperature is the sampling temperature sent with every chat
	// completion unless overridden. Low values keep translations literal.
	DefaultTemperature = 0.3

	// DefaultTopP is the nucleus sampling cutoff sent with every chat completion
	// unless overridden.
	DefaultTopP = 0.3
)

var modelTokens = map[string]int{
	openai.GPT3Dot5Turbo:    4096,
	openai.GPT3Dot5Turbo16K: 16384,
	openai.GPT4:             8192,
	openai.GPT432K:          32768,
	openai.GPT4TurboPreview: 128000,
	"default":               4096,
}

// Client is a [parlance.ModelClient] that sends prompts to the OpenAI chat
// completions API. Instruction messages are sent as system messages and
// content messages as user messages.
type Client struct {
	model       string
	baseURL     string
	maxTokens   int
	temperature float32
	topP        float32
	timeout     time.Duration
	logger      *slog.Logger
	client      *openai.Client
}

// Option is a function type used to configure a Client.
type Option func(*Client)

// Model returns an Option that sets the OpenAI model to use.
func Model(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// BaseURL returns an Option that sets the base URL of the API, for example to
// use an OpenAI-compatible proxy.
func BaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// MaxTokens sets the context size of the model. If not set, the known context
// size of the selected model is used.
func MaxTokens(maxTokens int) Option {
	return func(c *Client) {
		c.maxTokens = maxTokens
	}
}

// Temperature overrides [DefaultTemperature].
func Temperature(temperature float32) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// TopP overrides [DefaultTopP].
func TopP(topP float32) Option {
	return func(c *Client) {
		c.topP = topP
	}
}

// Timeout sets the maximum duration of a single request. A zero timeout (the
// default) lets requests run until the provider responds or the context passed
// to Invoke is canceled.
func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Logger sets the logger that receives debug output.
func Logger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client that authenticates with apiToken.
func New(apiToken string, opts ...Option) *Client {
	c := Client{
		temperature: DefaultTemperature,
		topP:        DefaultTopP,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.model == "" {
		c.model = DefaultModel
	}

	if c.maxTokens <= 0 {
		var ok bool
		if c.maxTokens, ok = modelTokens[c.model]; !ok {
			c.maxTokens = modelTokens["default"]
		}
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With(slog.String("client", "openai"))

	cfg := openai.DefaultConfig(apiToken)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.client = openai.NewClientWithConfig(cfg)

	c.logger.Debug("client created",
		slog.String("model", c.model),
		slog.Float64("temperature", float64(c.temperature)),
		slog.Float64("top_p", float64(c.topP)),
		slog.Int("max_tokens", c.maxTokens),
	)

	return &c
}

// Invoke sends the prompt to the chat completions API. It returns a nil result
// if the API responded without choices.
func (c *Client) Invoke(ctx context.Context, msgs parlance.PromptMessages) (*parlance.ModelResult, error) {
	promptTokens, err := PromptTokens(c.model, msgs)
	if err != nil {
		return nil, fmt.Errorf("compute prompt tokens: %w", err)
	}

	maxTokens := c.maxTokens - promptTokens
	if maxTokens <= 0 {
		return nil, fmt.Errorf("prompt exceeds the context of %q (%d of %d tokens)", c.model, promptTokens, c.maxTokens)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("creating chat completion", slog.Int("prompt_tokens", promptTokens), slog.Int("max_tokens", maxTokens))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		Messages:    chatMessages(msgs),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		c.logger.Debug("chat completion without choices", slog.String("id", resp.ID))
		return nil, nil
	}

	choice := resp.Choices[0]

	result := &parlance.ModelResult{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: parlance.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, part := range choice.Message.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			result.Parts = append(result.Parts, part.Text)
		}
	}

	return result, nil
}

func chatMessages(msgs parlance.PromptMessages) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = openai.ChatCompletionMessage{
			Role:    chatRole(msg.Role),
			Content: msg.Content,
		}
	}
	return out
}

func chatRole(role parlance.Role) string {
	if role == parlance.RoleInstruction {
		return openai.ChatMessageRoleSystem
	}
	return openai.ChatMessageRoleUser
}
