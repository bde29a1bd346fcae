package cli

import (
	"context"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// stubStoreService is a canned-response driving.StoreService for command tests.
type stubStoreService struct {
	storedID  string
	stored    []domain.Document
	document  *domain.Document
	documents []domain.Document
	err       error
}

func (s *stubStoreService) Store(_ context.Context, doc domain.Document) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.stored = append(s.stored, doc)
	return s.storedID, nil
}

func (s *stubStoreService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return s.document, s.err
}

func (s *stubStoreService) FindSimilar(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	return s.documents, s.err
}

func (s *stubStoreService) FindByDateRange(_ context.Context, _, _ string) ([]domain.Document, error) {
	return s.documents, s.err
}

func (s *stubStoreService) FindByEntity(_ context.Context, _ string) ([]domain.Document, error) {
	return s.documents, s.err
}

func (s *stubStoreService) ReferencedBy(_ context.Context, _ string) ([]domain.Document, error) {
	return s.documents, s.err
}

func (s *stubStoreService) Clear(_ context.Context) error {
	return s.err
}

// stubAnalysisService is a canned-response driving.AnalysisService.
type stubAnalysisService struct {
	analysis  domain.AnalysisResult
	summary   domain.DocumentSummary
	extracted map[string]any
}

func (s *stubAnalysisService) Analyze(_ context.Context, _ string, _ map[string]any) domain.AnalysisResult {
	return s.analysis
}

func (s *stubAnalysisService) Summarize(_ context.Context, _ string, _ map[string]any, level domain.DetailLevel) domain.DocumentSummary {
	summary := s.summary
	summary.DetailLevel = level
	return summary
}

func (s *stubAnalysisService) Extract(_ context.Context, _ string, _ map[string]any, _ []string) map[string]any {
	return s.extracted
}

func (s *stubAnalysisService) AnalyzeBatch(ctx context.Context, docs []domain.Document, _ map[string]domain.RelationshipView) []domain.AnalysisResult {
	results := make([]domain.AnalysisResult, len(docs))
	for i := range docs {
		results[i] = s.analysis
	}
	return results
}

// stubRelationshipService is a canned-response driving.RelationshipService.
type stubRelationshipService struct {
	view *domain.RelationshipView
	err  error
}

func (s *stubRelationshipService) Resolve(_ context.Context, _ string) (*domain.RelationshipView, error) {
	return s.view, s.err
}

// stubExtractor is a canned-response driven.TextExtractor.
type stubExtractor struct {
	content string
	err     error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	return s.content, s.err
}

func (s *stubExtractor) Supports(_ string) bool {
	return true
}

// testServices bundles the stubs installed by setupTestServices.
type testServices struct {
	store         *stubStoreService
	analysis      *stubAnalysisService
	relationships *stubRelationshipService
	extractor     *stubExtractor
}

// setupTestServices replaces the package-level services with stubs so
// commands run without config, providers or a vector collection. The
// returned cleanup restores the previous wiring.
func setupTestServices() (*testServices, func()) {
	prevStore := storeService
	prevAnalysis := analysisService
	prevRelationships := relationshipService
	prevExtractor := extractorRegistry

	stubs := &testServices{
		store: &stubStoreService{storedID: "doc-test01"},
		analysis: &stubAnalysisService{
			analysis:  domain.AnalysisResult{DocumentType: "contract", ConfidenceScore: 0.9},
			summary:   domain.DocumentSummary{Content: "a summary", WordCount: 2},
			extracted: map[string]any{"dates": []any{"2024-03-15"}},
		},
		relationships: &stubRelationshipService{
			view: &domain.RelationshipView{
				Similar:      []domain.Document{},
				References:   []domain.Document{},
				ReferencedBy: []domain.Document{},
			},
		},
		extractor: &stubExtractor{content: "file content"},
	}

	storeService = stubs.store
	analysisService = stubs.analysis
	relationshipService = stubs.relationships
	extractorRegistry = stubs.extractor

	return stubs, func() {
		storeService = prevStore
		analysisService = prevAnalysis
		relationshipService = prevRelationships
		extractorRegistry = prevExtractor
	}
}
