package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

var (
	summarizeLevel string
	summarizeJSON  bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [doc-id]",
	Short: "Summarize a stored document",
	Long: `Generates a summary of a stored document at the chosen detail level:
brief, standard or detailed. Unrecognised levels fall back to standard.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeLevel, "level", "l", "standard", "detail level: brief, standard or detailed")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
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

	level := domain.DetailLevel(summarizeLevel).Normalise()
	summary := analysisService.Summarize(ctx, doc.Content, doc.Metadata, level)

	if summarizeJSON {
		return printJSON(cmd, summary)
	}

	cmd.Printf("Summary (%s, %d words)\n\n", summary.DetailLevel, summary.WordCount)
	cmd.Println(summary.Content)
	if len(summary.KeyPoints) > 0 {
		cmd.Println("\nKey points:")
		for _, point := range summary.KeyPoints {
			cmd.Printf("  - %s\n", point)
		}
	}
	return nil
}
