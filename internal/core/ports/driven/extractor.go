package driven

import "context"

// TextExtractor converts a file into plain text so it can be stored and
// analysed. One extractor handles one family of formats; a registry picks
// the extractor by file extension.
type TextExtractor interface {
	// Extract reads the file at path and returns its plain-text content.
	Extract(ctx context.Context, path string) (string, error)

	// Supports reports whether this extractor handles the extension.
	// The extension includes the leading dot and is lower-case.
	Supports(ext string) bool
}
