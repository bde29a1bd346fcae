// Command docana is the document-analysis CLI and MCP server.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docana-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional; API keys may come from a local .env instead of the shell.
	godotenv.Load() //nolint:errcheck

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
