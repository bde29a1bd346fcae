package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

var (
	batchRecursive bool
	batchJSON      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Store and analyze every document in a directory",
	Long: `Analyses each file in the directory independently. A file that fails
extraction or storage is reported and skipped; the batch never aborts on
one bad document.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVarP(&batchRecursive, "recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(batchCmd)
}

// batchResult is one file's outcome.
type batchResult struct {
	File  string `json:"file"`
	DocID string `json:"doc_id,omitempty"`
	Error string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	files, err := listBatchFiles(args[0], batchRecursive)
	if err != nil {
		return err
	}

	results := make([]batchResult, 0, len(files))
	failures := 0
	for _, path := range files {
		docID, _, err := analyzeFile(ctx, path, "unknown", "", "", "")
		if err != nil {
			results = append(results, batchResult{File: path, Error: err.Error()})
			failures++
			continue
		}
		results = append(results, batchResult{File: path, DocID: docID})
	}

	if batchJSON {
		return printJSON(cmd, results)
	}

	for _, r := range results {
		if r.Error != "" {
			cmd.Printf("  FAIL %s: %s\n", r.File, r.Error)
		} else {
			cmd.Printf("  ok   %s -> %s\n", r.File, r.DocID)
		}
	}
	cmd.Printf("\n%d analyzed, %d failed\n", len(results)-failures, failures)
	return nil
}

// listBatchFiles returns the regular files under dir, sorted.
func listBatchFiles(dir string, recursive bool) ([]string, error) {
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
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
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
