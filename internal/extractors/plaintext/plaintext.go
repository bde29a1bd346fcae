// Package plaintext extracts content from files that are already text.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// maxFileSize caps how much text is read from a single file (10 MB).
const maxFileSize = 10 << 20

// supportedExtensions lists the text formats this extractor handles.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".log":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
	".html": true,
	".xml":  true,
}

// Extractor reads text files as-is.
type Extractor struct{}

// NewExtractor creates a plain-text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file and returns its content. Files that are not valid
// UTF-8 are rejected rather than stored as mojibake.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("%s exceeds maximum file size (%d bytes)", path, maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", domain.ErrUnsupportedFormat, path)
	}

	return strings.TrimSpace(string(data)), nil
}

// Supports reports whether the extension is a known text format.
func (e *Extractor) Supports(ext string) bool {
	return supportedExtensions[ext]
}
