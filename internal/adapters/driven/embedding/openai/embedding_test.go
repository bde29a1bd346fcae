package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("model dimensions from the lookup", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})

		require.NoError(t, err)
		assert.Equal(t, 3072, svc.Dimensions())
	})

	t.Run("explicit dimensions win", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-small", Dimensions: 512})

		require.NoError(t, err)
		assert.Equal(t, 512, svc.Dimensions())
	})

	t.Run("unknown model falls back", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "custom-model"})

		require.NoError(t, err)
		assert.Equal(t, 1536, svc.Dimensions())
	})
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var captured embeddingRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		// Out-of-order indices exercise the defensive sort.
		_, _ = w.Write([]byte(`{"data": [
			{"embedding": [0.3, 0.4], "index": 1},
			{"embedding": [0.1, 0.2], "index": 0}
		]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: server.URL, Dimensions: 2})
	require.NoError(t, err)
	defer svc.Close()

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0], "results come back in input order")
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, []string{"first", "second"}, captured.Input)
	assert.Equal(t, 2, captured.Dimensions, "text-embedding-3-* models send dimensions")
}

func TestEmbeddingService_EmbedBatch_OmitsDimensionsForLegacyModels(t *testing.T) {
	var captured embeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1], "index": 0}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: server.URL, Model: "text-embedding-ada-002"})
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Zero(t, captured.Dimensions)
}

func TestEmbeddingService_EmbedBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Embed(context.Background(), "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key")
	assert.Contains(t, err.Error(), "invalid_request_error")
}

func TestEmbeddingService_EmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1], "index": 0}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 embeddings for 2 inputs")
}

func TestEmbeddingService_EmbedBatch_EmptyInput(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)
	defer svc.Close()

	embeddings, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, embeddings, "no request is made for empty input")
}
