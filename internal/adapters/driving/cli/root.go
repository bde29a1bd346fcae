// Package cli provides the command-line interface for Docana.
// Commands wire the core services to a configured vector collection and
// AI providers, then expose the document-analysis operations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docana-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docana-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docana-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docana-cli/internal/core/services"
	"github.com/custodia-labs/docana-cli/internal/extractors"
	"github.com/custodia-labs/docana-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

// verbose enables debug logging.
var verbose bool

// Services wired by initServices. Commands that need them call
// initServices first; settings and version work without.
var (
	configStore         *file.ConfigStore
	promptStore         *file.PromptStore
	storeService        driving.StoreService
	analysisService     driving.AnalysisService
	relationshipService driving.RelationshipService
	extractorRegistry   driven.TextExtractor
)

var rootCmd = &cobra.Command{
	Use:   "docana",
	Short: "Document analysis with LLM extraction and semantic search",
	Long: `Docana stores documents in a vector collection and analyses them with
an LLM provider: entity and date extraction, summaries, targeted
information extraction and relationship discovery.

Run 'docana mcp serve' to expose the same operations to AI assistants
over the Model Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the service graph from configuration. Idempotent;
// the first caller pays the wiring cost.
func initServices(ctx context.Context) error {
	if storeService != nil {
		return nil
	}

	var err error
	configStore, err = file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	promptStore, err = file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(embeddingSettings())
	if err != nil {
		return err
	}
	if embedder == nil {
		return errors.New("embedding provider not configured; run 'docana settings set-key' or start a local Ollama")
	}

	collection, err := buildCollection(embedder.Dimensions())
	if err != nil {
		return err
	}

	docService := services.NewDocumentService(collection, embedder)
	if err := docService.Initialize(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	llm, err := ai.CreateLLMService(llmSettings())
	if err != nil {
		return err
	}
	if llm == nil {
		logger.Warn("no LLM provider configured, analysis results will be degraded")
	} else {
		logger.Debug("LLM provider ready: %s", llm.ModelName())
	}

	storeService = docService
	analysisService = services.NewAnalyzer(llm, promptStore)
	relationshipService = services.NewRelationshipResolver(docService)
	extractorRegistry = extractors.NewRegistry()

	return nil
}

// buildCollection selects the vector backend from configuration.
func buildCollection(dimensions int) (driven.VectorCollection, error) {
	backend := configStore.GetString(file.KeyVectorBackend)
	switch backend {
	case "", "qdrant":
		return qdrant.NewCollection(qdrant.Config{
			URL:        configStore.GetString(file.KeyVectorURL),
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			Collection: configStore.GetString(file.KeyVectorCollection),
			Dimensions: dimensions,
		})
	case "memory":
		return memory.NewCollection(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", backend)
	}
}

// llmSettings assembles LLM provider settings from config with environment
// variable overrides for API keys.
func llmSettings() *domain.LLMSettings {
	provider := domain.AIProvider(configStore.GetString(file.KeyLLMProvider))
	if provider == "" {
		provider = domain.AIProviderOllama
	}

	return &domain.LLMSettings{
		Provider:          provider,
		Model:             configStore.GetString(file.KeyLLMModel),
		APIKey:            apiKeyFor(provider, configStore.GetString(file.KeyLLMAPIKey)),
		BaseURL:           configStore.GetString(file.KeyLLMBaseURL),
		RequestsPerMinute: configStore.GetInt(file.KeyLLMRatePerMinute),
	}
}

// embeddingSettings assembles embedding provider settings from config.
func embeddingSettings() *domain.EmbeddingSettings {
	provider := domain.AIProvider(configStore.GetString(file.KeyEmbeddingProvider))
	if provider == "" {
		provider = domain.AIProviderOllama
	}

	return &domain.EmbeddingSettings{
		Provider:   provider,
		Model:      configStore.GetString(file.KeyEmbeddingModel),
		APIKey:     apiKeyFor(provider, configStore.GetString(file.KeyEmbeddingAPIKey)),
		BaseURL:    configStore.GetString(file.KeyEmbeddingBaseURL),
		Dimensions: configStore.GetInt(file.KeyEmbeddingDims),
	}
}

// apiKeyFor prefers the provider's conventional environment variable over
// the configured key.
func apiKeyFor(provider domain.AIProvider, configured string) string {
	var env string
	switch provider {
	case domain.AIProviderOpenAI:
		env = os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		env = os.Getenv("ANTHROPIC_API_KEY")
	}
	if env != "" {
		return env
	}
	return configured
}
