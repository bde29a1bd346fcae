package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotInitialized indicates an operation was invoked before the
	// store's Initialize completed. This is a caller-ordering contract,
	// not a runtime race: setup is expected to finish before use.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed indicates the LLM call raised an error or
	// returned unusable output. Callers recover by substituting a
	// degraded result rather than propagating.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNoJSONPayload indicates no structured payload could be located
	// in generation output. Treated as a cause of ErrGenerationFailed,
	// never surfaced to the end caller on its own.
	ErrNoJSONPayload = errors.New("no JSON object found in response")

	// ErrVectorUnavailable indicates the vector collection is unreachable
	// or rejected a write. Fatal for setup operations; no retry.
	ErrVectorUnavailable = errors.New("vector collection unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity and entity search need embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedFormat indicates a file type no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
