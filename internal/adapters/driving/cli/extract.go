package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

var (
	extractTypes []string
	extractJSON  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [doc-id]",
	Short: "Extract specific information from a stored document",
	Long: `Extracts the requested information types from a stored document.
Every requested type appears in the output; types the document does not
contain map to an empty list.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringSliceVarP(&extractTypes, "types", "t", nil, "information types to extract (e.g. parties,dates,locations)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the result as JSON")
	extractCmd.MarkFlagRequired("types") //nolint:errcheck
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	docID := args[0]
	doc, err := storeService.Get(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}

	extracted := analysisService.Extract(ctx, doc.Content, doc.Metadata, extractTypes)

	if extractJSON {
		return printJSON(cmd, extracted)
	}

	for _, infoType := range extractTypes {
		cmd.Printf("%s: %v\n", infoType, extracted[infoType])
	}
	return nil
}
