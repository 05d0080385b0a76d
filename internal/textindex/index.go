// Package textindex provides a line/offset index over an immutable text buffer.
//
// The index is built once per document in O(n) and is read-only afterwards, so
// it can be shared across concurrent resolutions without synchronization.
package textindex

import (
	"fmt"
	"sort"
	"strings"
)

// Index maps between absolute byte offsets and (line, column) positions in a
// document, extracts context snippets, and searches for literal substrings
// restricted to a line window.
type Index struct {
	text       string
	lineStarts []int
}

// LineInfo describes the line containing an offset.
type LineInfo struct {
	// LineNumber is 1-based, LineIndex is 0-based.
	LineNumber     int    `json:"line_number"`
	LineIndex      int    `json:"line_index"`
	PositionInLine int    `json:"position_in_line"`
	LineText       string `json:"line_text"`
}

// Location describes a resolved [start, end) range.
type Location struct {
	Start LineInfo `json:"start"`
	End   LineInfo `json:"end"`
	Text  string   `json:"text"`
}

// Span is a [StartOffset, EndOffset) byte range found by FindInLineRange.
// CaseInsensitive is set when the match came from the case-folded pass.
type Span struct {
	StartOffset     int
	EndOffset       int
	CaseInsensitive bool
}

// New builds an index over text. An empty document is a structural error:
// there is nothing to anchor findings to.
func New(text string) (*Index, error) {
	if text == "" {
		return nil, fmt.Errorf("textindex: empty document")
	}
	starts := make([]int, 0, strings.Count(text, "\n")+1)
	starts = append(starts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}, nil
}

// Text returns the indexed document text.
func (ix *Index) Text() string {
	return ix.text
}

// LineCount returns the number of lines in the document.
func (ix *Index) LineCount() int {
	return len(ix.lineStarts)
}

// LineForOffset returns the 0-based line index containing offset, or -1 if
// offset is out of bounds.
func (ix *Index) LineForOffset(offset int) int {
	if offset < 0 || offset >= len(ix.text) {
		return -1
	}
	// First line start greater than offset; the line is the one before it.
	i := sort.SearchInts(ix.lineStarts, offset+1)
	return i - 1
}

// lineStart returns the byte offset of the first character of line i.
func (ix *Index) lineStart(i int) int {
	return ix.lineStarts[i]
}

// lineEnd returns the byte offset just past the last character of line i,
// excluding the trailing newline.
func (ix *Index) lineEnd(i int) int {
	if i+1 < len(ix.lineStarts) {
		return ix.lineStarts[i+1] - 1
	}
	end := len(ix.text)
	if end > 0 && ix.text[end-1] == '\n' {
		end--
	}
	return end
}

// LineText returns the text of line i without its trailing newline.
func (ix *Index) LineText(i int) string {
	if i < 0 || i >= len(ix.lineStarts) {
		return ""
	}
	return ix.text[ix.lineStart(i):ix.lineEnd(i)]
}

// LineInfo returns line information for the given offset, or nil if the
// offset is out of bounds.
func (ix *Index) LineInfo(offset int) *LineInfo {
	line := ix.LineForOffset(offset)
	if line < 0 {
		return nil
	}
	return &LineInfo{
		LineNumber:     line + 1,
		LineIndex:      line,
		PositionInLine: offset - ix.lineStart(line),
		LineText:       ix.LineText(line),
	}
}

// LocationInfo returns start/end line information and the covered text for
// the range [start, end), or nil if the range is invalid.
func (ix *Index) LocationInfo(start, end int) *Location {
	if start < 0 || end > len(ix.text) || start >= end {
		return nil
	}
	si := ix.LineInfo(start)
	ei := ix.LineInfo(end - 1)
	if si == nil || ei == nil {
		return nil
	}
	// End position points just past the last byte of the range.
	ei.PositionInLine++
	return &Location{Start: *si, End: *ei, Text: ix.text[start:end]}
}

// ContextSnippet returns up to before bytes preceding offset and after bytes
// following it, clipped to the boundaries of the line containing offset.
// Returns "" if offset is out of bounds.
func (ix *Index) ContextSnippet(offset, before, after int) string {
	line := ix.LineForOffset(offset)
	if line < 0 {
		return ""
	}
	lo := offset - before
	if ls := ix.lineStart(line); lo < ls {
		lo = ls
	}
	hi := offset + after
	if le := ix.lineEnd(line); hi > le {
		hi = le
	}
	if lo >= hi {
		return ""
	}
	return ix.text[lo:hi]
}

// FindInLineRange searches for target within the window of lines
// [startLine, endLine] (0-based, inclusive, clamped to the document). An
// exact pass over the window is tried first; if it misses, a case-folded
// pass over the same window runs before giving up. Exact match is preferred
// when available; case folding is the first, cheap fallback before the
// heavier fuzzy locator. Returns nil when neither pass matches.
func (ix *Index) FindInLineRange(target string, startLine, endLine int) *Span {
	if target == "" {
		return nil
	}
	if startLine < 0 {
		startLine = 0
	}
	if last := len(ix.lineStarts) - 1; endLine > last {
		endLine = last
	}
	if startLine > endLine {
		return nil
	}
	base := ix.lineStart(startLine)
	window := ix.text[base:ix.lineEnd(endLine)]

	if i := strings.Index(window, target); i >= 0 {
		return &Span{StartOffset: base + i, EndOffset: base + i + len(target)}
	}

	// Case-folded pass. Lowercasing can change byte lengths for some Unicode
	// case pairs, which would invalidate the offset mapping; the pass is
	// skipped in that rare case.
	lowWindow := strings.ToLower(window)
	lowTarget := strings.ToLower(target)
	if len(lowWindow) != len(window) || len(lowTarget) != len(target) {
		return nil
	}
	if i := strings.Index(lowWindow, lowTarget); i >= 0 {
		return &Span{StartOffset: base + i, EndOffset: base + i + len(target), CaseInsensitive: true}
	}
	return nil
}
