package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

var relationshipsJSON bool

var relationshipsCmd = &cobra.Command{
	Use:   "relationships [doc-id]",
	Short: "Show related documents",
	Long: `Resolves the relationship view for a stored document: semantically
similar documents, the document it explicitly references, and documents
that reference it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelationships,
}

func init() {
	relationshipsCmd.Flags().BoolVar(&relationshipsJSON, "json", false, "output the view as JSON")
	rootCmd.AddCommand(relationshipsCmd)
}

func runRelationships(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	view, err := relationshipService.Resolve(ctx, args[0])
	if err != nil {
		return err
	}

	if relationshipsJSON {
		return printJSON(cmd, view)
	}

	printDocumentList(cmd, "Similar", view.Similar)
	printDocumentList(cmd, "References", view.References)
	printDocumentList(cmd, "Referenced by", view.ReferencedBy)
	return nil
}

// printDocumentList renders a labelled document list.
func printDocumentList(cmd *cobra.Command, label string, docs []domain.Document) {
	cmd.Printf("%s:\n", label)
	if len(docs) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, doc := range docs {
		title, _ := doc.Metadata[domain.MetaTitle].(string)
		if title == "" {
			title = doc.ID
		} else {
			title = title + " (" + doc.ID + ")"
		}
		cmd.Printf("  - %s\n", title)
	}
}
