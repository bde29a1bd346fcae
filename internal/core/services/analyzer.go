package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docana-cli/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driving.AnalysisService = (*Analyzer)(nil)

// Generation limits. Analysis payloads are larger than summaries.
const (
	analyzeMaxTokens = 4096
	summaryMaxTokens = 2048
	extractMaxTokens = 2048
)

// Analyzer orchestrates prompt construction, the LLM call and response
// parsing. Every entry point recovers from generation and parse failures
// by substituting a degraded result, so batch workflows never abort on one
// bad document.
type Analyzer struct {
	llm     driven.LLMService
	prompts promptBuilder
}

// NewAnalyzer creates an analyzer on top of an LLM service. promptStore
// may be nil, in which case embedded default templates are used.
func NewAnalyzer(llm driven.LLMService, promptStore driven.PromptStore) *Analyzer {
	return &Analyzer{
		llm:     llm,
		prompts: promptBuilder{store: promptStore},
	}
}

// Analyze extracts structured information from one document. On any
// failure it returns a degraded result: empty sequences, zero confidence,
// original metadata preserved.
func (a *Analyzer) Analyze(ctx context.Context, content string, metadata map[string]any) domain.AnalysisResult {
	docType := "unknown"
	if t, ok := metadata[domain.MetaType].(string); ok && t != "" {
		docType = t
	}

	if a.llm == nil {
		logger.Warn("analyze: %v", domain.ErrLLMUnavailable)
		return domain.DegradedAnalysis(docType, metadata)
	}

	prompt := a.prompts.Analyze(content, docType)
	response, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: analyzeMaxTokens})
	if err != nil {
		logger.Warn("analyze: %v: %v", domain.ErrGenerationFailed, err)
		return domain.DegradedAnalysis(docType, metadata)
	}

	result, err := decodeAnalysis(response, docType, metadata)
	if err != nil {
		logger.Warn("analyze: %v: %v", domain.ErrGenerationFailed, err)
		return domain.DegradedAnalysis(docType, metadata)
	}
	return result
}

// Summarize generates a summary at the given detail level. Unrecognised
// levels are coerced to standard rather than rejected. The brief tier's
// length cap is a prompt instruction, not an enforced postcondition.
func (a *Analyzer) Summarize(ctx context.Context, content string, metadata map[string]any, level domain.DetailLevel) domain.DocumentSummary {
	level = level.Normalise()

	if a.llm == nil {
		logger.Warn("summarize: %v", domain.ErrLLMUnavailable)
		return degradedSummary(content, metadata, level)
	}

	prompt := a.prompts.Summarize(content, level)
	response, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: summaryMaxTokens})
	if err != nil {
		logger.Warn("summarize: %v: %v", domain.ErrGenerationFailed, err)
		return degradedSummary(content, metadata, level)
	}

	summary, err := decodeSummary(response, level, metadata)
	if err != nil {
		logger.Warn("summarize: %v: %v", domain.ErrGenerationFailed, err)
		return degradedSummary(content, metadata, level)
	}
	return summary
}

// Extract pulls the requested information types out of the content. Every
// requested type appears as a key in the result, even on total failure,
// so callers can iterate the requested types without existence checks.
func (a *Analyzer) Extract(ctx context.Context, content string, metadata map[string]any, infoTypes []string) map[string]any {
	_ = metadata

	empty := func() map[string]any {
		result := make(map[string]any, len(infoTypes))
		for _, t := range infoTypes {
			result[t] = []any{}
		}
		return result
	}

	if a.llm == nil {
		logger.Warn("extract: %v", domain.ErrLLMUnavailable)
		return empty()
	}

	prompt := a.prompts.Extract(content, infoTypes)
	response, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: extractMaxTokens})
	if err != nil {
		logger.Warn("extract: %v: %v", domain.ErrGenerationFailed, err)
		return empty()
	}

	result, err := decodeExtraction(response)
	if err != nil {
		logger.Warn("extract: %v: %v", domain.ErrGenerationFailed, err)
		return empty()
	}

	for _, t := range infoTypes {
		if _, ok := result[t]; !ok {
			result[t] = []any{}
		}
	}
	return result
}

// AnalyzeBatch analyses documents one at a time in caller-supplied order;
// result ordering matches input ordering. When a relationship mapping is
// supplied, each result's key_info gains a related_docs list derived from
// it; this path performs no relationship discovery of its own.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, docs []domain.Document, relationships map[string]domain.RelationshipView) []domain.AnalysisResult {
	results := make([]domain.AnalysisResult, 0, len(docs))

	for i := range docs {
		metadata := docs[i].Metadata
		if docs[i].ID != "" {
			metadata = withID(metadata, docs[i].ID)
		}
		results = append(results, a.Analyze(ctx, docs[i].Content, metadata))
	}

	if relationships == nil {
		return results
	}

	for i := range docs {
		view, ok := relationships[docs[i].ID]
		if !ok {
			continue
		}
		related := relatedIDs(view)
		if len(related) == 0 {
			continue
		}
		if results[i].KeyInfo == nil {
			results[i].KeyInfo = map[string]any{}
		}
		results[i].KeyInfo["related_docs"] = related
	}
	return results
}

// withID copies metadata with the document's identifier added, so the
// per-document analysis can echo it as source_doc_id.
func withID(metadata map[string]any, id string) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out["id"] = id
	return out
}

// relatedIDs flattens a relationship view into a sorted, deduplicated
// list of document identifiers.
func relatedIDs(view domain.RelationshipView) []string {
	seen := make(map[string]struct{})
	for _, group := range [][]domain.Document{view.Similar, view.References, view.ReferencedBy} {
		for i := range group {
			seen[group[i].ID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// degradedSummary is the fallback when summary generation fails: the
// content states the failure and the word count is computed locally from
// the source.
func degradedSummary(content string, metadata map[string]any, level domain.DetailLevel) domain.DocumentSummary {
	summary := domain.DocumentSummary{
		Content:     fmt.Sprintf("Failed to generate %s summary.", level),
		KeyPoints:   []string{},
		DetailLevel: level,
		WordCount:   domain.WordCount(content),
	}
	if id, ok := metadata["id"].(string); ok {
		summary.SourceDocID = id
	}
	return summary
}
