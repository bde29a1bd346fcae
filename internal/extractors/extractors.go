// Package extractors selects a text extractor by file extension.
package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docana-cli/internal/extractors/pdf"
	"github.com/custodia-labs/docana-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry routes extraction to the first extractor supporting the file's
// extension.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry with the default extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []driven.TextExtractor{
			plaintext.NewExtractor(),
			pdf.NewExtractor(),
		},
	}
}

// Extract converts the file at path to plain text.
// Returns domain.ErrUnsupportedFormat when no extractor handles the extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return e.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("%w: no extractor for %q", domain.ErrUnsupportedFormat, ext)
}

// Supports reports whether any registered extractor handles the extension.
func (r *Registry) Supports(ext string) bool {
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return true
		}
	}
	return false
}
