package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestLLMService_Generate(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"response": "generated text", "done": true}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "llama3.2"})
	defer svc.Close()

	resp, err := svc.Generate(context.Background(), "the prompt", driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.2,
	})

	require.NoError(t, err)
	assert.Equal(t, "generated text", resp)
	assert.Equal(t, "llama3.2", captured.Model)
	assert.Equal(t, "the prompt", captured.Prompt)
	assert.False(t, captured.Stream, "streaming is disabled")
	require.NotNil(t, captured.Options)
	assert.Equal(t, 256, captured.Options.NumPredict)
	assert.Equal(t, 0.2, captured.Options.Temperature)
}

func TestLLMService_Generate_OmitsOptionsWhenUnset(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"response": "ok", "done": true}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	defer svc.Close()

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Nil(t, captured.Options)
}

func TestLLMService_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`model not found`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	defer svc.Close()

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not found")
}

func TestLLMService_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/tags", r.URL.Path)
			_, _ = w.Write([]byte(`{"models": []}`))
		}))
		defer server.Close()

		svc := NewLLMService(Config{BaseURL: server.URL})
		defer svc.Close()

		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		svc := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})
		defer svc.Close()

		assert.Error(t, svc.Ping(context.Background()))
	})
}
