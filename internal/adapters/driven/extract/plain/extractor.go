// Package plain provides a text extractor for plain-text files.
//
// OCR and PDF extraction are external concerns; this adapter covers the
// formats that need no conversion. Anything else is rejected with
// domain.ErrUnsupportedFormat so callers can route to an external extractor.
package plain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads plain-text documents from disk.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// supportedExtensions are the file extensions read verbatim.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	".log":      true,
	".csv":      true,
	".rst":      true,
}

// Extract reads the file at path and returns its contents as text.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}

	return string(data), nil
}
