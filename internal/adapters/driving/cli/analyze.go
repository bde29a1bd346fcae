package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

var (
	analyzeDocType     string
	analyzeTitle       string
	analyzeReferenceID string
	analyzeCategory    string
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Store and analyze a document file",
	Long: `Reads the file, stores it in the vector collection and extracts
entities, monetary values, dates and key information with the configured
LLM provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDocType, "type", "", "document type (e.g. contract, report)")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "document title (defaults to the file name)")
	analyzeCmd.Flags().StringVar(&analyzeReferenceID, "reference", "", "ID of a document this one amends")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "document category")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	docID, result, err := analyzeFile(ctx, args[0], analyzeDocType, analyzeTitle, analyzeReferenceID, analyzeCategory)
	if err != nil {
		return err
	}

	if analyzeJSON {
		return printJSON(cmd, map[string]any{"doc_id": docID, "analysis": result})
	}

	cmd.Printf("Stored as %s\n\n", docID)
	printAnalysis(cmd, result)
	return nil
}

// analyzeFile extracts text, stores the document and analyses it. Shared by
// the analyze and batch commands.
func analyzeFile(ctx context.Context, path, docType, title, referenceID, category string) (string, domain.AnalysisResult, error) {
	content, err := extractorRegistry.Extract(ctx, path)
	if err != nil {
		return "", domain.AnalysisResult{}, err
	}

	if docType == "" {
		docType = "unknown"
	}
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
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

	docID, err := storeService.Store(ctx, domain.Document{Content: content, Metadata: metadata})
	if err != nil {
		return "", domain.AnalysisResult{}, fmt.Errorf("store document: %w", err)
	}

	withID := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		withID[k] = v
	}
	withID["id"] = docID

	return docID, analysisService.Analyze(ctx, content, withID), nil
}

// printAnalysis renders an analysis result in human-readable form.
func printAnalysis(cmd *cobra.Command, result domain.AnalysisResult) {
	cmd.Printf("Type: %s (confidence %.2f)\n", result.DocumentType, result.ConfidenceScore)

	if len(result.KeyEntities) > 0 {
		cmd.Println("\nEntities:")
		for _, e := range result.KeyEntities {
			cmd.Printf("  - %s (%s, %.2f)\n", e.Name, e.Type, e.Confidence)
		}
	}

	if len(result.MonetaryValues) > 0 {
		cmd.Println("\nMonetary values:")
		for _, m := range result.MonetaryValues {
			cmd.Printf("  - %.2f %s\n", m.Amount, m.Currency)
		}
	}

	if len(result.Dates) > 0 {
		cmd.Println("\nDates:")
		for _, d := range result.Dates {
			cmd.Printf("  - %s (%s)\n", d.Date, d.Type)
		}
	}

	if result.ReferenceID != "" {
		cmd.Printf("\nReferences: %s\n", result.ReferenceID)
	}

	if len(result.KeyInfo) > 0 {
		cmd.Println("\nKey info:")
		for key, value := range result.KeyInfo {
			cmd.Printf("  %s: %v\n", key, value)
		}
	}
}

// printJSON renders any value as indented JSON.
func printJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
