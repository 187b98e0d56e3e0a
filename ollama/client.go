// Package ollama provides a [parlance.ModelClient] backed by the chat API of a
// local or remote Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/modernice/parlance"
)

const (
	// DefaultBaseURL is the address of a local Ollama server.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model used when no model is configured.
	DefaultModel = "llama3.1"

	// DefaultTemperature is the sampling temperature used when none is configured.
	DefaultTemperature = 0.3
)

// Client sends prompts to Ollama's /api/chat endpoint without streaming.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	http        *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// Model sets the model to chat with.
func Model(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// Temperature sets the sampling temperature.
func Temperature(temperature float64) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// Timeout sets the maximum duration of a single request. Zero means no
// timeout.
func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// New returns a client for the Ollama server at baseURL. An empty baseURL
// defaults to [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       DefaultModel,
		temperature: DefaultTemperature,
		http:        resty.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// Invoke sends the prompt to the chat endpoint. It returns a nil result if the
// response contains no message content.
func (c *Client) Invoke(ctx context.Context, msgs parlance.PromptMessages) (*parlance.ModelResult, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: make([]chatMessage, len(msgs)),
		Stream:   false,
		Options:  map[string]any{"temperature": c.temperature},
	}
	for i, msg := range msgs {
		body.Messages[i] = chatMessage{Role: chatRole(msg.Role), Content: msg.Content}
	}

	var resp chatResponse
	r, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.baseURL + "/api/chat")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("ollama chat: %s; body: %s", r.Status(), r.String())
	}

	if resp.Message.Content == "" {
		return nil, nil
	}

	return &parlance.ModelResult{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
		Usage: parlance.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

func chatRole(role parlance.Role) string {
	if role == parlance.RoleInstruction {
		return "system"
	}
	return "user"
}
