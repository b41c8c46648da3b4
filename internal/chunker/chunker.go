// Package chunker splits cleaned text into overlapping, bounded-size chunks.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of characters carried over from the
// previous chunk.
const DefaultOverlap = 50

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`[ \t]{2,}`)
)

// Processor splits text into sentence-aligned chunks with soft overlap.
// It holds no mutable state; Chunk is a pure function of its input and the
// configured sizes.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a chunker processor. Chunk size must be positive and overlap
// must satisfy 0 <= overlap < chunk size; anything else is a configuration
// error and is rejected here rather than silently clamped.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, p.chunkSize)
	}
	if p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunk size), got %d", domain.ErrInvalidInput, p.overlap)
	}

	return p, nil
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk cleans the text and splits it into ordered chunks.
//
// Sentences are accumulated greedily until adding the next one would exceed
// the chunk size. A single sentence longer than the chunk size is sliced
// into fixed windows of (chunk size - overlap) characters. Finally every
// chunk after the first is prefixed with the trailing overlap characters of
// the previous output chunk, giving soft continuity between neighbours.
//
// Empty or whitespace-only input yields no chunks.
func (p *Processor) Chunk(text string) []string {
	text = Clean(text)
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)

	var chunks []string
	current := ""
	step := p.chunkSize - p.overlap

	for _, s := range sentences {
		if runeLen(current)+runeLen(s) <= p.chunkSize {
			current = strings.TrimSpace(current + " " + s)
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}

		if runeLen(s) > p.chunkSize {
			// Sentence cannot fit in any buffer; slice it by characters.
			rs := []rune(s)
			for i := 0; i < len(rs); i += step {
				end := i + step
				if end > len(rs) {
					end = len(rs)
				}
				if part := strings.TrimSpace(string(rs[i:end])); part != "" {
					chunks = append(chunks, part)
				}
			}
			current = ""
		} else {
			current = s
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return p.applyOverlap(chunks)
}

// applyOverlap prefixes each chunk after the first with the tail of the
// previous output chunk. Chunks shorter than the overlap contribute no
// prefix.
func (p *Processor) applyOverlap(chunks []string) []string {
	if len(chunks) == 0 {
		return nil
	}

	final := make([]string, 0, len(chunks))
	for i, c := range chunks {
		if i == 0 {
			final = append(final, c)
			continue
		}

		prev := []rune(final[len(final)-1])
		if p.overlap > 0 && len(prev) >= p.overlap {
			tail := string(prev[len(prev)-p.overlap:])
			final = append(final, strings.TrimSpace(tail+" "+c))
		} else {
			final = append(final, c)
		}
	}

	return final
}

// Clean normalises whitespace in extracted text: non-breaking spaces become
// regular spaces, line-break variants become \n, runs of 3+ newlines
// collapse to a blank line, every line is trimmed, and runs of horizontal
// whitespace collapse to one space.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = multiSpace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// splitSentences splits on whitespace that immediately follows a sentence
// terminator (., ! or ?). The separating whitespace is discarded.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}

func runeLen(s string) int {
	return len([]rune(s))
}
