package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

var (
	searchStartDate string
	searchEndDate   string
	searchDocType   string
	searchCategory  string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored documents by date range",
	Long: `Searches stored documents whose date metadata falls in the given range.
Type and category filters are applied to the range results.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchStartDate, "from", "", "range start (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchEndDate, "to", "", "range end (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchDocType, "type", "", "filter by document type")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter by category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	if searchStartDate == "" || searchEndDate == "" {
		return errors.New("both --from and --to are required")
	}

	docs, err := storeService.FindByDateRange(ctx, searchStartDate, searchEndDate)
	if err != nil {
		return err
	}

	filtered := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if searchDocType != "" && doc.Type() != searchDocType {
			continue
		}
		if searchCategory != "" {
			category, _ := doc.Metadata[domain.MetaCategory].(string)
			if category != searchCategory {
				continue
			}
		}
		filtered = append(filtered, doc)
	}

	if searchJSON {
		return printJSON(cmd, filtered)
	}

	if len(filtered) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	printDocumentList(cmd, "Documents", filtered)
	return nil
}
