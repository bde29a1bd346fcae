package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

func writeTestFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0600))
}

func TestSummarizeCmd_NormalisesLevel(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	stubs.store.document = &domain.Document{ID: "doc-1", Content: "text", Metadata: map[string]any{}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summarize", "doc-1", "--level", "EXHAUSTIVE"})
	defer func() {
		rootCmd.SetArgs(nil)
		summarizeLevel = "standard"
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "standard", "unknown level coerces to standard")
	assert.Contains(t, buf.String(), "a summary")
}

func TestSummarizeCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarize", "doc-missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchCmd_RequiresDates(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "--from", "2024-01-01"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchStartDate = ""
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from and --to")
}

func TestSearchCmd_FiltersType(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	stubs.store.documents = []domain.Document{
		{ID: "doc-1", Metadata: map[string]any{domain.MetaType: "contract", domain.MetaTitle: "Agreement"}},
		{ID: "doc-2", Metadata: map[string]any{domain.MetaType: "report"}},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--from", "2024-01-01", "--to", "2024-12-31", "--type", "contract"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchStartDate = ""
		searchEndDate = ""
		searchDocType = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Agreement")
	assert.NotContains(t, buf.String(), "doc-2")
}

func TestEntityCmd_ListsDocuments(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	stubs.store.documents = []domain.Document{
		{ID: "doc-1", Metadata: map[string]any{domain.MetaTitle: "Acme Contract"}},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"entity", "Acme Corp"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Acme Contract")
}

func TestRelationshipsCmd_RendersEmptySections(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"relationships", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Similar:")
	assert.Contains(t, buf.String(), "References:")
	assert.Contains(t, buf.String(), "Referenced by:")
	assert.Contains(t, buf.String(), "(none)")
}

func TestExtractCmd_RequiresTypesFlag(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "types")
}

func TestExtractCmd_PrintsRequestedTypes(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	stubs.store.document = &domain.Document{ID: "doc-1", Content: "text", Metadata: map[string]any{}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "doc-1", "--types", "dates"})
	defer func() {
		rootCmd.SetArgs(nil)
		extractTypes = nil
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dates:")
	assert.Contains(t, buf.String(), "2024-03-15")
}
