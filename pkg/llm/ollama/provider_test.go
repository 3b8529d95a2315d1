package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-tutor-be/pkg/llm"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Stream)
		assert.False(t, *req.Stream)
		assert.Equal(t, "llama3", req.Model)
		require.Len(t, req.Messages, 3)
		assert.Equal(t, "assistant", req.Messages[1].Role)
		assert.EqualValues(t, 128, req.Options["num_predict"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":   req.Model,
			"message": map[string]string{"role": "assistant", "content": "Try justify-content."},
			"done":    true,
		})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3")
	require.NoError(t, err)

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "hello"},
		{Role: "user", Content: "center?"},
	}, llm.WithMaxTokens(128))
	require.NoError(t, err)
	assert.Equal(t, "Try justify-content.", out)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "missing")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNewOllamaProvider_InvalidURL(t *testing.T) {
	_, err := NewOllamaProvider("http://[::1", "llama3")
	assert.Error(t, err)
}
