package mcp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// AnalyzeDocumentInput is the input schema for the analyze_document tool.
type AnalyzeDocumentInput struct {
	FilePath    string `json:"file_path" jsonschema:"path to the document file to analyze"`
	DocType     string `json:"doc_type,omitempty" jsonschema:"document type such as contract or report"`
	Title       string `json:"title,omitempty" jsonschema:"document title (defaults to the file name)"`
	ReferenceID string `json:"reference_id,omitempty" jsonschema:"ID of a document this one amends or extends"`
	Category    string `json:"category,omitempty" jsonschema:"caller-defined grouping key"`
}

// AnalyzeDocumentOutput is the output schema for the analyze_document tool.
type AnalyzeDocumentOutput struct {
	DocID    string                `json:"doc_id"`
	Analysis domain.AnalysisResult `json:"analysis"`
}

// SummarizeDocumentInput is the input schema for the summarize_document tool.
type SummarizeDocumentInput struct {
	DocID       string `json:"doc_id" jsonschema:"identifier of a stored document"`
	DetailLevel string `json:"detail_level,omitempty" jsonschema:"summary verbosity: brief, standard or detailed (default standard)"`
}

// FindRelationshipsInput is the input schema for the find_relationships tool.
type FindRelationshipsInput struct {
	DocID string `json:"doc_id" jsonschema:"identifier of a stored document"`
}

// SearchDocumentsInput is the input schema for the search_documents tool.
type SearchDocumentsInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"range start in YYYY-MM-DD form"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"range end in YYYY-MM-DD form"`
	DocType   string `json:"doc_type,omitempty" jsonschema:"filter results by document type"`
	Category  string `json:"category,omitempty" jsonschema:"filter results by category"`
}

// DocumentListOutput is the output schema for tools returning document lists.
type DocumentListOutput struct {
	Documents []domain.Document `json:"documents"`
	Count     int               `json:"count"`
}

// FindEntityInput is the input schema for the find_entity tool.
type FindEntityInput struct {
	Entity string `json:"entity" jsonschema:"entity name to search for"`
}

// ExtractInfoInput is the input schema for the extract_info tool.
type ExtractInfoInput struct {
	DocID     string   `json:"doc_id" jsonschema:"identifier of a stored document"`
	InfoTypes []string `json:"info_types" jsonschema:"information types to extract, e.g. parties, dates, locations"`
}

// ExtractInfoOutput is the output schema for the extract_info tool.
type ExtractInfoOutput struct {
	DocID     string         `json:"doc_id"`
	Extracted map[string]any `json:"extracted"`
}

// BatchAnalyzeInput is the input schema for the batch_analyze tool.
type BatchAnalyzeInput struct {
	Directory string `json:"directory" jsonschema:"directory containing documents to analyze"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"whether to descend into subdirectories"`
}

// BatchFileResult is one file's outcome in a batch analysis.
type BatchFileResult struct {
	File     string                 `json:"file"`
	DocID    string                 `json:"doc_id,omitempty"`
	Analysis *domain.AnalysisResult `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// BatchAnalyzeOutput is the output schema for the batch_analyze tool.
type BatchAnalyzeOutput struct {
	Results []BatchFileResult `json:"results"`
	Count   int               `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Store a document file and extract entities, monetary values, dates and key information",
	}, s.handleAnalyzeDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Generate a summary of a stored document at a chosen detail level",
	}, s.handleSummarizeDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_relationships",
		Description: "Find similar, referenced and referencing documents for a stored document",
	}, s.handleFindRelationships)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search stored documents by date range, optionally filtered by type and category",
	}, s.handleSearchDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_entity",
		Description: "Find stored documents mentioning an entity",
	}, s.handleFindEntity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_info",
		Description: "Extract specific information types from a stored document",
	}, s.handleExtractInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "batch_analyze",
		Description: "Store and analyze every document file in a directory",
	}, s.handleBatchAnalyze)
}

// handleAnalyzeDocument stores the file as a document and analyses it.
func (s *Server) handleAnalyzeDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeDocumentInput,
) (*mcp.CallToolResult, AnalyzeDocumentOutput, error) {
	docID, result, err := s.analyzeFile(ctx, input.FilePath, input.DocType, input.Title, input.ReferenceID, input.Category)
	if err != nil {
		return nil, AnalyzeDocumentOutput{}, err
	}

	return nil, AnalyzeDocumentOutput{DocID: docID, Analysis: result}, nil
}

// handleSummarizeDocument generates a summary of a stored document.
func (s *Server) handleSummarizeDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeDocumentInput,
) (*mcp.CallToolResult, domain.DocumentSummary, error) {
	doc, err := s.ports.Store.Get(ctx, input.DocID)
	if err != nil {
		return nil, domain.DocumentSummary{}, err
	}
	if doc == nil {
		return nil, domain.DocumentSummary{}, fmt.Errorf("document %s: %w", input.DocID, domain.ErrNotFound)
	}

	level := domain.DetailLevel(input.DetailLevel).Normalise()
	summary := s.ports.Analysis.Summarize(ctx, doc.Content, withDocID(doc.Metadata, doc.ID), level)
	return nil, summary, nil
}

// handleFindRelationships resolves the relationship view for a document.
func (s *Server) handleFindRelationships(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindRelationshipsInput,
) (*mcp.CallToolResult, domain.RelationshipView, error) {
	view, err := s.ports.Relationships.Resolve(ctx, input.DocID)
	if err != nil {
		return nil, domain.RelationshipView{}, err
	}
	return nil, *view, nil
}

// handleSearchDocuments searches stored documents by date range with
// client-side type and category filters. Both dates are required for the
// range query; without them the result is empty.
func (s *Server) handleSearchDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocumentsInput,
) (*mcp.CallToolResult, DocumentListOutput, error) {
	var docs []domain.Document
	if input.StartDate != "" && input.EndDate != "" {
		found, err := s.ports.Store.FindByDateRange(ctx, input.StartDate, input.EndDate)
		if err != nil {
			return nil, DocumentListOutput{}, err
		}
		docs = found
	}

	filtered := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if input.DocType != "" && doc.Type() != input.DocType {
			continue
		}
		if input.Category != "" {
			category, _ := doc.Metadata[domain.MetaCategory].(string)
			if category != input.Category {
				continue
			}
		}
		filtered = append(filtered, doc)
	}

	return nil, DocumentListOutput{Documents: filtered, Count: len(filtered)}, nil
}

// handleFindEntity finds documents mentioning an entity.
func (s *Server) handleFindEntity(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindEntityInput,
) (*mcp.CallToolResult, DocumentListOutput, error) {
	docs, err := s.ports.Store.FindByEntity(ctx, input.Entity)
	if err != nil {
		return nil, DocumentListOutput{}, err
	}
	return nil, DocumentListOutput{Documents: docs, Count: len(docs)}, nil
}

// handleExtractInfo extracts requested information types from a document.
func (s *Server) handleExtractInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInfoInput,
) (*mcp.CallToolResult, ExtractInfoOutput, error) {
	doc, err := s.ports.Store.Get(ctx, input.DocID)
	if err != nil {
		return nil, ExtractInfoOutput{}, err
	}
	if doc == nil {
		return nil, ExtractInfoOutput{}, fmt.Errorf("document %s: %w", input.DocID, domain.ErrNotFound)
	}

	extracted := s.ports.Analysis.Extract(ctx, doc.Content, withDocID(doc.Metadata, doc.ID), input.InfoTypes)
	return nil, ExtractInfoOutput{DocID: doc.ID, Extracted: extracted}, nil
}

// handleBatchAnalyze stores and analyses every file in a directory.
// Per-file failures are recorded in the result instead of aborting the batch.
func (s *Server) handleBatchAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BatchAnalyzeInput,
) (*mcp.CallToolResult, BatchAnalyzeOutput, error) {
	files, err := listFiles(input.Directory, input.Recursive)
	if err != nil {
		return nil, BatchAnalyzeOutput{}, err
	}

	results := make([]BatchFileResult, 0, len(files))
	for _, path := range files {
		docID, analysis, err := s.analyzeFile(ctx, path, "unknown", fileStem(path), "", "")
		if err != nil {
			results = append(results, BatchFileResult{File: path, Error: err.Error()})
			continue
		}
		results = append(results, BatchFileResult{File: path, DocID: docID, Analysis: &analysis})
	}

	return nil, BatchAnalyzeOutput{Results: results, Count: len(results)}, nil
}

// analyzeFile is the shared path behind analyze_document and batch_analyze:
// extract text, store the document, analyse the content.
func (s *Server) analyzeFile(ctx context.Context, path, docType, title, referenceID, category string) (string, domain.AnalysisResult, error) {
	content, err := s.ports.Extractor.Extract(ctx, path)
	if err != nil {
		return "", domain.AnalysisResult{}, err
	}

	if docType == "" {
		docType = "unknown"
	}
	if title == "" {
		title = fileStem(path)
	}

	metadata := map[string]any{
		domain.MetaType:       docType,
		domain.MetaTitle:      title,
		domain.MetaDate:       time.Now().Format("2006-01-02"),
		domain.MetaSourceFile: path,
	}
	if referenceID != "" {
		metadata[domain.MetaReferenceID] = referenceID
	}
	if category != "" {
		metadata[domain.MetaCategory] = category
	}

	docID, err := s.ports.Store.Store(ctx, domain.Document{
		Content:  content,
		Metadata: metadata,
	})
	if err != nil {
		return "", domain.AnalysisResult{}, err
	}

	result := s.ports.Analysis.Analyze(ctx, content, withDocID(metadata, docID))
	return docID, result, nil
}

// listFiles returns the regular files under dir, sorted, optionally
// descending into subdirectories.
func listFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// fileStem returns the file name without directory or extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// withDocID copies metadata with the document ID added under "id", so
// analysis results echo their source document.
func withDocID(metadata map[string]any, id string) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	if id != "" {
		out["id"] = id
	}
	return out
}
