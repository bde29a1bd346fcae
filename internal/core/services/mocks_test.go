package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// mockEmbedder is a deterministic driven.EmbeddingService. Vectors come
// from the vectors map when the text is known, otherwise from a cheap
// character histogram, so distinct texts get distinct directions.
type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return histogram(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 8 }

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }

func (m *mockEmbedder) Close() error { return nil }

// histogram buckets characters into a fixed-size vector.
func histogram(text string) []float32 {
	vec := make([]float32, 8)
	for _, r := range text {
		vec[int(r)%8]++
	}
	return vec
}

// mockLLM is a canned-response driven.LLMService that records prompts.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return m.err }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore serves templates from a map.
type mockPromptStore struct {
	templates map[string]string
	reloads   int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if tmpl, ok := m.templates[name]; ok {
		return tmpl, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPromptStore) Reload() { m.reloads++ }
