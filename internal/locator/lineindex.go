package locator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// fuzzyLineIndex is a transient, in-memory bleve index over the haystack's
// lines. It backs the approximate strategy: a fuzzy term query tolerant of
// minor edits picks the most likely line, and the locator then scores
// windows around that line to recover exact offsets. The index lives for a
// single locate call.
type fuzzyLineIndex struct {
	index      bleve.Index
	lineStarts []int
	lines      []string
}

func newFuzzyLineIndex(haystack string) (*fuzzyLineIndex, error) {
	im := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("locator: create line index: %w", err)
	}

	f := &fuzzyLineIndex{index: index}
	offset := 0
	for _, line := range strings.Split(haystack, "\n") {
		f.lineStarts = append(f.lineStarts, offset)
		f.lines = append(f.lines, line)
		offset += len(line) + 1
	}

	batch := index.NewBatch()
	for i, line := range f.lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := batch.Index(strconv.Itoa(i), map[string]interface{}{"text": line}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("locator: index line %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("locator: index batch: %w", err)
	}
	return f, nil
}

// bestLine returns the line index of the top fuzzy hit for target, or ok=false
// when nothing in the index resembles the target.
func (f *fuzzyLineIndex) bestLine(target string) (int, bool) {
	q := bleve.NewMatchQuery(target)
	q.SetField("text")
	q.SetFuzziness(2)
	req := bleve.NewSearchRequest(q)
	req.Size = 1
	res, err := f.index.Search(req)
	if err != nil || len(res.Hits) == 0 {
		return 0, false
	}
	line, err := strconv.Atoi(res.Hits[0].ID)
	if err != nil {
		return 0, false
	}
	return line, true
}

// region returns the haystack range covering lines [line-1, line+1], clamped
// to the document, along with its start offset.
func (f *fuzzyLineIndex) region(line int) (string, int) {
	lo := line - 1
	if lo < 0 {
		lo = 0
	}
	hi := line + 1
	if hi >= len(f.lines) {
		hi = len(f.lines) - 1
	}
	start := f.lineStarts[lo]
	var b strings.Builder
	for i := lo; i <= hi; i++ {
		if i > lo {
			b.WriteByte('\n')
		}
		b.WriteString(f.lines[i])
	}
	return b.String(), start
}

func (f *fuzzyLineIndex) Close() error {
	return f.index.Close()
}
