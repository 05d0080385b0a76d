// Package chunker partitions a document into bounded, offset-indexed chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/tensaku/internal/models"
)

const (
	// DefaultTargetSize is the default chunk size in bytes.
	DefaultTargetSize = 4000
	// boundaryTolerance is the fraction of TargetSize a chunk may shrink by
	// to end on a paragraph or line boundary instead of mid-text.
	boundaryTolerance = 0.5
)

// Options configure chunking.
type Options struct {
	// TargetSize is the preferred chunk size in bytes.
	TargetSize int
	// ByParagraph prefers breaking on paragraph boundaries (blank lines),
	// even when that produces uneven chunk sizes.
	ByParagraph bool
	// Overlap is the number of bytes of trailing context repeated at the
	// start of the next chunk. 0 produces a lossless partition: the chunks'
	// source ranges concatenate back to the exact document.
	Overlap int
}

// Chunker splits text into chunks that each carry their document-absolute
// start offset and start line, so any position found inside a chunk's text
// translates back to a document offset by simple addition.
type Chunker struct {
	opts Options
}

// New creates a chunker. A zero or negative TargetSize falls back to
// DefaultTargetSize; a negative Overlap is treated as 0.
func New(opts Options) *Chunker {
	if opts.TargetSize <= 0 {
		opts.TargetSize = DefaultTargetSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.TargetSize {
		opts.Overlap = opts.TargetSize / 2
	}
	return &Chunker{opts: opts}
}

// Chunk splits text into chunks. Returns nil for empty text.
func (c *Chunker) Chunk(text string) []*models.Chunk {
	if text == "" {
		return nil
	}

	chunks := make([]*models.Chunk, 0, len(text)/c.opts.TargetSize+1)
	start := 0
	startLine := 0
	for start < len(text) {
		end := c.cutPoint(text, start)
		chunks = append(chunks, &models.Chunk{
			ID:          fmt.Sprintf("chunk_%d_%s", len(chunks), uuid.New().String()[:8]),
			Index:       len(chunks),
			Text:        text[start:end],
			StartOffset: start,
			StartLine:   startLine,
		})
		if end >= len(text) {
			break
		}
		next := end
		if c.opts.Overlap > 0 {
			next = end - c.opts.Overlap
			// Keep the overlap start on a rune boundary.
			for next > start && isContinuationByte(text[next]) {
				next--
			}
			if next <= start {
				next = end
			}
		}
		startLine += strings.Count(text[start:next], "\n")
		start = next
	}
	return chunks
}

// cutPoint returns the end offset for a chunk starting at start. The cut
// lands on, in order of preference: the end of the document, a paragraph
// boundary (when ByParagraph is set), a line boundary, or a rune boundary at
// the target size. Boundary cuts only shrink the chunk within tolerance.
func (c *Chunker) cutPoint(text string, start int) int {
	end := start + c.opts.TargetSize
	if end >= len(text) {
		return len(text)
	}
	floor := start + int(float64(c.opts.TargetSize)*boundaryTolerance)

	if c.opts.ByParagraph {
		// Cut just past the blank line, so the next chunk starts at the
		// beginning of the following paragraph.
		if i := strings.LastIndex(text[floor:end], "\n\n"); i >= 0 {
			return floor + i + 2
		}
	}
	if i := strings.LastIndexByte(text[floor:end], '\n'); i >= 0 {
		return floor + i + 1
	}
	// Hard cut: back off to the start of the current rune.
	for end > floor && isContinuationByte(text[end]) {
		end--
	}
	return end
}

func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}
