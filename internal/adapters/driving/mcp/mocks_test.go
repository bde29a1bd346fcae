package mcp

import (
	"context"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	storedID  string
	stored    []domain.Document
	document  *domain.Document
	documents []domain.Document
	err       error
}

func (m *mockStoreService) Store(_ context.Context, doc domain.Document) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.stored = append(m.stored, doc)
	return m.storedID, nil
}

func (m *mockStoreService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockStoreService) FindSimilar(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockStoreService) FindByDateRange(_ context.Context, _, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockStoreService) FindByEntity(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockStoreService) ReferencedBy(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockStoreService) Clear(_ context.Context) error {
	return m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	analysis  domain.AnalysisResult
	summary   domain.DocumentSummary
	extracted map[string]any
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ string, metadata map[string]any) domain.AnalysisResult {
	result := m.analysis
	result.Metadata = metadata
	return result
}

func (m *mockAnalysisService) Summarize(_ context.Context, _ string, _ map[string]any, level domain.DetailLevel) domain.DocumentSummary {
	summary := m.summary
	summary.DetailLevel = level
	return summary
}

func (m *mockAnalysisService) Extract(_ context.Context, _ string, _ map[string]any, _ []string) map[string]any {
	return m.extracted
}

func (m *mockAnalysisService) AnalyzeBatch(ctx context.Context, docs []domain.Document, _ map[string]domain.RelationshipView) []domain.AnalysisResult {
	results := make([]domain.AnalysisResult, len(docs))
	for i, doc := range docs {
		results[i] = m.Analyze(ctx, doc.Content, doc.Metadata)
	}
	return results
}

// mockRelationshipService is a mock implementation of driving.RelationshipService.
type mockRelationshipService struct {
	view *domain.RelationshipView
	err  error
}

func (m *mockRelationshipService) Resolve(_ context.Context, _ string) (*domain.RelationshipView, error) {
	return m.view, m.err
}

// mockExtractor is a mock implementation of driven.TextExtractor.
type mockExtractor struct {
	content string
	err     error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockExtractor) Supports(_ string) bool {
	return true
}

// validPorts builds a Ports value where every port is a fresh mock.
func validPorts() *Ports {
	return &Ports{
		Store:         &mockStoreService{},
		Analysis:      &mockAnalysisService{},
		Relationships: &mockRelationshipService{},
		Extractor:     &mockExtractor{},
	}
}
