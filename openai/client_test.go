package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modernice/parlance"
	"github.com/modernice/parlance/openai"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Invoke(t *testing.T) {
	var received goopenai.ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: "gpt-4-0613",
			Choices: []goopenai.ChatCompletionChoice{{
				Message: goopenai.ChatCompletionMessage{
					Role:    goopenai.ChatMessageRoleAssistant,
					Content: "Addio mio caro amico",
				},
				FinishReason: goopenai.FinishReasonStop,
			}},
			Usage: goopenai.Usage{PromptTokens: 24, CompletionTokens: 6, TotalTokens: 30},
		})
	}))
	defer server.Close()

	client := openai.New("test-key", openai.BaseURL(server.URL+"/v1"))

	result, err := client.Invoke(context.Background(), parlance.BuildPrompt("Goodbye my dear friend", "italian"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Addio mio caro amico", result.Content)
	assert.Equal(t, "gpt-4-0613", result.Model)
	assert.Equal(t, "stop", result.FinishReason)
	assert.Equal(t, parlance.Usage{PromptTokens: 24, CompletionTokens: 6, TotalTokens: 30}, result.Usage)

	assert.Equal(t, openai.DefaultModel, received.Model)
	assert.InDelta(t, openai.DefaultTemperature, received.Temperature, 0.0001)
	assert.Greater(t, received.MaxTokens, 0)
	assert.Less(t, received.MaxTokens, 8192)

	require.Len(t, received.Messages, 2)
	assert.Equal(t, goopenai.ChatMessageRoleSystem, received.Messages[0].Role)
	assert.Equal(t, "Translate the following from English to italian", received.Messages[0].Content)
	assert.Equal(t, goopenai.ChatMessageRoleUser, received.Messages[1].Role)
	assert.Equal(t, "Goodbye my dear friend", received.Messages[1].Content)
}

func TestClient_Invoke_options(t *testing.T) {
	var received goopenai.ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{{Message: goopenai.ChatCompletionMessage{Content: "Hola"}}},
		})
	}))
	defer server.Close()

	client := openai.New(
		"test-key",
		openai.BaseURL(server.URL+"/v1"),
		openai.Model(goopenai.GPT3Dot5Turbo),
		openai.Temperature(0.7),
		openai.TopP(0.9),
		openai.MaxTokens(1000),
	)

	_, err := client.Invoke(context.Background(), parlance.BuildPrompt("Hello", "spanish"))
	require.NoError(t, err)

	assert.Equal(t, goopenai.GPT3Dot5Turbo, received.Model)
	assert.InDelta(t, 0.7, received.Temperature, 0.0001)
	assert.InDelta(t, 0.9, received.TopP, 0.0001)
	assert.Less(t, received.MaxTokens, 1000)
}

func TestClient_Invoke_noChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{ID: "chatcmpl-2"})
	}))
	defer server.Close()

	client := openai.New("test-key", openai.BaseURL(server.URL+"/v1"))

	result, err := client.Invoke(context.Background(), parlance.BuildPrompt("Hello", "french"))
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_Invoke_apiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	client := openai.New("wrong-key", openai.BaseURL(server.URL+"/v1"))

	result, err := client.Invoke(context.Background(), parlance.BuildPrompt("Hello", "french"))
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestClient_Invoke_promptTooLarge(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := openai.New("test-key", openai.BaseURL(server.URL+"/v1"), openai.MaxTokens(5))

	_, err := client.Invoke(context.Background(), parlance.BuildPrompt("Goodbye my dear friend", "italian"))
	assert.Error(t, err)
	assert.False(t, called)
}

func TestPromptTokens(t *testing.T) {
	short, err := openai.PromptTokens(goopenai.GPT4, parlance.BuildPrompt("Hi", "german"))
	require.NoError(t, err)

	long, err := openai.PromptTokens(goopenai.GPT4, parlance.BuildPrompt("Goodbye my dear friend, it was a pleasure to meet you.", "german"))
	require.NoError(t, err)

	assert.Greater(t, short, 0)
	assert.Greater(t, long, short)
}

func TestPromptTokens_unknownModel(t *testing.T) {
	n, err := openai.PromptTokens("some-unknown-model", parlance.BuildPrompt("Hi", "german"))
	assert.NoError(t, err)
	assert.Greater(t, n, 0)
}
