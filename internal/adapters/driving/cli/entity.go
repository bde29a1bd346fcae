package cli

import (
	"github.com/spf13/cobra"
)

var entityJSON bool

var entityCmd = &cobra.Command{
	Use:   "entity [name]",
	Short: "Find documents mentioning an entity",
	Long: `Finds stored documents mentioning the named entity, combining a
semantic similarity query with a literal containment filter.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntity,
}

func init() {
	entityCmd.Flags().BoolVar(&entityJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(entityCmd)
}

func runEntity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	docs, err := storeService.FindByEntity(ctx, args[0])
	if err != nil {
		return err
	}

	if entityJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	printDocumentList(cmd, "Documents", docs)
	return nil
}
