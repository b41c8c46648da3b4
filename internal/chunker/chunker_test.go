package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, p.ChunkSize())
	assert.Equal(t, DefaultOverlap, p.Overlap())
}

func TestNew_Options(t *testing.T) {
	p, err := New(WithChunkSize(100), WithOverlap(10))
	require.NoError(t, err)
	assert.Equal(t, 100, p.ChunkSize())
	assert.Equal(t, 10, p.Overlap())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero chunk size", []Option{WithChunkSize(0)}},
		{"negative chunk size", []Option{WithChunkSize(-1)}},
		{"negative overlap", []Option{WithOverlap(-1)}},
		{"overlap equals chunk size", []Option{WithChunkSize(50), WithOverlap(50)}},
		{"overlap exceeds chunk size", []Option{WithChunkSize(50), WithOverlap(60)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"non-breaking space", "a b", "a b"},
		{"windows line endings", "a\r\nb\rc", "a\nb\nc"},
		{"newline runs collapse", "a\n\n\n\nb", "a\n\nb"},
		{"lines trimmed", "  a  \n\tb\t", "a\nb"},
		{"horizontal whitespace collapses", "a  \t b", "a b"},
		{"surrounding whitespace trimmed", "  \n a \n  ", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	assert.Nil(t, p.Chunk(""))
	assert.Nil(t, p.Chunk("   \n\t  "))
}

func TestChunk_SingleChunk(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	chunks := p.Chunk("A. B. C.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A. B. C.", chunks[0])
}

func TestChunk_Deterministic(t *testing.T) {
	p, err := New(WithChunkSize(20), WithOverlap(5))
	require.NoError(t, err)

	text := "One sentence here. Another sentence there. And a third one."
	first := p.Chunk(text)
	second := p.Chunk(text)
	assert.Equal(t, first, second)
}

func TestChunk_SentenceBoundariesWithOverlap(t *testing.T) {
	p, err := New(WithChunkSize(20), WithOverlap(5))
	require.NoError(t, err)

	text := "aaaaaaaaaa. bbbbbbbbbb. cccccccccc."
	chunks := p.Chunk(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, "aaaaaaaaaa.", chunks[0])
	assert.Equal(t, "aaaa. bbbbbbbbbb.", chunks[1])
	assert.Equal(t, "bbbb. cccccccccc.", chunks[2])
}

func TestChunk_OversizeSentenceSliced(t *testing.T) {
	p, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	chunks := p.Chunk("abcdefghijklmnopqrstuvwxyz")

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefgh", chunks[0])
	assert.Equal(t, "gh ijklmnop", chunks[1])
	assert.Equal(t, "op qrstuvwx", chunks[2])
	assert.Equal(t, "wx yz", chunks[3])
}

func TestChunk_ShortPredecessorSkipsOverlap(t *testing.T) {
	p, err := New(WithChunkSize(6), WithOverlap(5))
	require.NoError(t, err)

	chunks := p.Chunk("a. bbbb.")

	require.Len(t, chunks, 2)
	assert.Equal(t, "a.", chunks[0])
	// First chunk is shorter than the overlap, so no prefix is carried.
	assert.Equal(t, "bbbb.", chunks[1])
}

func TestChunk_ZeroOverlapBound(t *testing.T) {
	p, err := New(WithChunkSize(30), WithOverlap(0))
	require.NoError(t, err)

	text := strings.Repeat("aaaa. ", 20)
	chunks := p.Chunk(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 30)
	}
}
