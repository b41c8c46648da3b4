package driven

import "context"

// TextExtractor produces a single text string from a source file.
// OCR and PDF extraction live behind this boundary; the pipeline only
// sees the resulting string.
type TextExtractor interface {
	// Extract reads the file at path and returns its text content.
	// Returns domain.ErrUnsupportedFormat for file types it cannot
	// handle and domain.ErrExtraction when a supported file fails.
	Extract(ctx context.Context, path string) (string, error)
}
