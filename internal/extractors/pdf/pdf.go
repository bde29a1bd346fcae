// Package pdf extracts text from PDF files using pdfcpu.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor pulls text out of PDF content streams. pdfcpu extracts raw page
// content (PDF operators); the text-show operators Tj and TJ carry the
// visible strings, which we decode and join.
type Extractor struct{}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the PDF at path, pages in order
// separated by blank lines.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "docana-pdf-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractContentFile(path, tmpDir, nil, nil); err != nil {
		return "", fmt.Errorf("extract content from %s: %w", path, err)
	}

	// pdfcpu writes one content file per page into tmpDir. Filenames embed
	// the page number, so a lexical sort with numeric awareness keeps page
	// order for typical page counts; read them all and decode.
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("read extracted content: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	var pages []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(tmpDir, name))
		if err != nil {
			return "", fmt.Errorf("read page content: %w", err)
		}
		if text := decodeContentStream(data); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// Supports reports whether the extension is PDF.
func (e *Extractor) Supports(ext string) bool {
	return ext == ".pdf"
}

// decodeContentStream pulls the literal strings out of Tj and TJ text-show
// operators in a decompressed content stream. Hex strings and CID-encoded
// fonts are skipped; this covers simply-encoded PDFs, which is the common
// case for generated reports and contracts.
func decodeContentStream(data []byte) string {
	var (
		out     strings.Builder
		literal strings.Builder
		inText  bool
		inArray bool
		depth   int
	)

	flushIfShown := func(i int) {
		// A literal counts as text when followed by a show operator, or
		// anywhere inside a TJ array, where kerning numbers separate the
		// string elements.
		shown := inArray
		rest := data[i:]
		j := 0
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\n' || rest[j] == '\r' || rest[j] == '\t') {
			j++
		}
		if !shown && j < len(rest) {
			switch rest[j] {
			case 'T': // Tj or TJ
				shown = j+1 < len(rest) && (rest[j+1] == 'j' || rest[j+1] == 'J')
			case '\'', '"': // move-and-show operators
				shown = true
			}
		}
		if shown && literal.Len() > 0 {
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(literal.String())
		}
		literal.Reset()
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inText {
			switch c {
			case '(':
				inText = true
				depth = 1
				literal.Reset()
			case '[':
				inArray = true
			case ']':
				inArray = false
			}
			continue
		}

		switch c {
		case '\\':
			if i+1 < len(data) {
				i++
				switch data[i] {
				case 'n':
					literal.WriteByte('\n')
				case 'r':
					literal.WriteByte('\r')
				case 't':
					literal.WriteByte('\t')
				case '(', ')', '\\':
					literal.WriteByte(data[i])
				case '\n', '\r':
					// Line continuation, emit nothing.
				default:
					literal.WriteByte(data[i])
				}
			}
		case '(':
			depth++
			literal.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				inText = false
				flushIfShown(i + 1)
			} else {
				literal.WriteByte(c)
			}
		default:
			literal.WriteByte(c)
		}
	}

	return strings.TrimSpace(out.String())
}
