package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChatHandler validates requests and answers with content.
func mockChatHandler(t *testing.T, content string, validation func(*oaiRequest, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		var req oaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if validation != nil {
			validation(&req, r)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	}
}

func TestOpenAI_GenerateWithSchema(t *testing.T) {
	server := httptest.NewServer(mockChatHandler(t, `{"quote":"q","author":"a"}`, func(req *oaiRequest, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "model", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "give me a quote", req.Messages[0].Content)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.9, *req.Temperature, 1e-9)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.NotNil(t, req.ResponseFormat.JSONSchema.Schema)
	}))
	defer server.Close()

	p := NewOpenAI("test", server.URL, "key", "model")
	out, err := p.Generate(context.Background(), Request{
		Prompt:      "give me a quote",
		Schema:      map[string]any{"type": "object"},
		Temperature: Temperature(0.9),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"quote":"q","author":"a"}`, out)
}

func TestOpenAI_PlainTextOmitsResponseFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.NotContains(t, raw, "response_format")
		assert.NotContains(t, raw, "temperature")
		w.Write([]byte(`{"choices":[{"message":{"content":"# Article"}}]}`))
	}))
	defer server.Close()

	out, err := NewOpenAI("test", server.URL, "", "model").Generate(context.Background(), Request{Prompt: "write"})
	require.NoError(t, err)
	assert.Equal(t, "# Article", out)
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAI("test", server.URL, "bad", "model").Generate(context.Background(), Request{Prompt: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAI("test", server.URL, "", "model").Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_Models(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"llama3"},{"id":"qwen2"}]}`))
	}))
	defer server.Close()

	models, err := NewOpenAI("ollama", server.URL, "", "llama3").Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "qwen2"}, models)
}

func TestNew(t *testing.T) {
	g, err := New("google", "gemini", "", "k", "")
	require.NoError(t, err)
	assert.Equal(t, "google", g.Name())
	assert.Equal(t, DefaultGoogleModel, g.ModelName())

	_, err = New("openai", "local", "", "", "m")
	assert.Error(t, err)

	_, err = New("anthropic", "x", "", "", "")
	assert.Error(t, err)
}
