package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the model name. Empty uses the provider default.
	Model string

	// APIKey authenticates cloud providers. Unused for local providers.
	APIKey string

	// BaseURL overrides the provider endpoint (local servers, proxies).
	BaseURL string

	// RequestsPerMinute caps outbound request rate. Zero disables the cap.
	RequestsPerMinute int
}

// IsConfigured returns true if the settings name a usable provider.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. Empty uses the provider default.
	Model string

	// APIKey authenticates cloud providers. Unused for local providers.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Dimensions is the embedding vector size. Zero uses the model default.
	Dimensions int
}

// IsConfigured returns true if the settings name a usable provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// VectorSettings holds vector collection configuration.
type VectorSettings struct {
	// Backend selects the collection implementation: "qdrant" or "memory".
	Backend string

	// URL is the Qdrant endpoint (default http://localhost:6333).
	URL string

	// APIKey authenticates hosted Qdrant. Optional for local instances.
	APIKey string

	// Collection is the collection name (default "docana").
	Collection string
}
