package chunker

import (
	"strings"
	"testing"
)

func TestChunkEmpty(t *testing.T) {
	c := New(Options{TargetSize: 100})
	if chunks := c.Chunk(""); chunks != nil {
		t.Errorf("empty text should return nil, got %v", chunks)
	}
}

func TestChunkSingle(t *testing.T) {
	c := New(Options{TargetSize: 1000})
	chunks := c.Chunk("short document")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	ch := chunks[0]
	if ch.Text != "short document" || ch.StartOffset != 0 || ch.StartLine != 0 {
		t.Errorf("chunk = %+v", ch)
	}
	if ch.ID == "" {
		t.Error("chunk ID should be set")
	}
}

// Reconstruction: with no overlap, concatenating chunk ranges reproduces the
// document exactly, with no gaps.
func TestChunkReconstruction(t *testing.T) {
	docs := map[string]string{
		"paragraphs": strings.Repeat("First paragraph with some text.\n\nSecond paragraph follows here.\n\n", 20),
		"long lines": strings.Repeat("one long line of text without paragraph breaks to speak of\n", 50),
		"no newline": strings.Repeat("x", 950),
		"unicode":    strings.Repeat("日本語のテキスト。", 100),
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			for _, byPara := range []bool{false, true} {
				c := New(Options{TargetSize: 200, ByParagraph: byPara})
				chunks := c.Chunk(doc)
				var b strings.Builder
				offset := 0
				for i, ch := range chunks {
					if ch.Index != i {
						t.Errorf("chunk %d has Index %d", i, ch.Index)
					}
					if ch.StartOffset != offset {
						t.Fatalf("chunk %d starts at %d, want %d (gap or overlap)", i, ch.StartOffset, offset)
					}
					if doc[ch.StartOffset:ch.EndOffset()] != ch.Text {
						t.Fatalf("chunk %d text does not match its document range", i)
					}
					b.WriteString(ch.Text)
					offset = ch.EndOffset()
				}
				if b.String() != doc {
					t.Errorf("byParagraph=%v: reconstruction differs from document", byPara)
				}
			}
		})
	}
}

func TestChunkStartLine(t *testing.T) {
	doc := "line0\nline1\nline2\nline3\nline4\nline5\nline6\nline7\n"
	c := New(Options{TargetSize: 14})
	chunks := c.Chunk(doc)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		wantLine := strings.Count(doc[:ch.StartOffset], "\n")
		if ch.StartLine != wantLine {
			t.Errorf("chunk %d StartLine = %d, want %d", i, ch.StartLine, wantLine)
		}
	}
}

func TestChunkParagraphBoundary(t *testing.T) {
	// With ByParagraph set, a boundary within tolerance must win over a
	// mid-paragraph cut.
	doc := strings.Repeat("a", 150) + "\n\n" + strings.Repeat("b", 150)
	c := New(Options{TargetSize: 200, ByParagraph: true})
	chunks := c.Chunk(doc)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("first chunk should end at the paragraph boundary, ends %q", chunks[0].Text[len(chunks[0].Text)-5:])
	}
	if strings.Contains(chunks[0].Text, "b") || strings.Contains(chunks[1].Text, "a") {
		t.Error("paragraphs were split across chunks")
	}
}

func TestChunkOverlap(t *testing.T) {
	doc := strings.Repeat("word ", 200) // 1000 bytes
	c := New(Options{TargetSize: 300, Overlap: 50})
	chunks := c.Chunk(doc)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.StartOffset >= prev.EndOffset() {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
		if cur.StartOffset <= prev.StartOffset {
			t.Errorf("chunk %d does not make progress", i)
		}
		if doc[cur.StartOffset:cur.EndOffset()] != cur.Text {
			t.Errorf("chunk %d text does not match its document range", i)
		}
	}
}

func TestChunkRuneBoundary(t *testing.T) {
	// Multi-byte runes must never be split by a hard cut or overlap start.
	doc := strings.Repeat("é", 500)
	c := New(Options{TargetSize: 101, Overlap: 11})
	for _, ch := range c.Chunk(doc) {
		if !strings.HasPrefix(doc[ch.StartOffset:], ch.Text) {
			t.Fatal("chunk text misaligned with document")
		}
		if strings.ContainsRune(ch.Text, '�') {
			t.Fatal("chunk split a rune")
		}
	}
}
