package locator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// mapped is a normalized rendering of a source string that remembers, for
// every normalized byte, the original byte range it came from. Matching is
// done on the normalized text; hits are mapped back to original offsets.
type mapped struct {
	text   string
	starts []int
	ends   []int
}

// closing punctuation that should absorb a preceding space during
// punctuation normalization ("word ." -> "word.").
func isClosingPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', ')', ']', '}', '’', '”':
		return true
	}
	return false
}

// opening punctuation after which a space is dropped ("( word" -> "(word").
func isOpeningPunct(r rune) bool {
	switch r {
	case '(', '[', '{', '‘', '“':
		return true
	}
	return false
}

// asciiQuotes maps smart/curly quotes and apostrophes to their ASCII
// equivalents, leaving every other rune unchanged.
func asciiQuotes(r rune) rune {
	switch r {
	case '‘', '’', '‚', '‛', '‹', '›':
		return '\''
	case '“', '”', '„', '‟', '«', '»':
		return '"'
	}
	return r
}

func identity(r rune) rune { return r }

// buildMapped normalizes s rune by rune. transform rewrites individual runes;
// when collapseSpace is set, runs of whitespace fold into a single ASCII
// space, and the space is dropped entirely at the start and end of the text
// and next to punctuation.
func buildMapped(s string, transform func(rune) rune, collapseSpace bool) *mapped {
	var b strings.Builder
	b.Grow(len(s))
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	emit := func(r rune, start, end int) {
		n := utf8.RuneLen(r)
		b.WriteRune(r)
		for k := 0; k < n; k++ {
			starts = append(starts, start)
			ends = append(ends, end)
		}
	}

	var lastEmitted rune
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if collapseSpace && unicode.IsSpace(r) {
			j := i + size
			for j < len(s) {
				r2, s2 := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			if j < len(s) && b.Len() > 0 {
				next, _ := utf8.DecodeRuneInString(s[j:])
				if !isClosingPunct(transform(next)) && !isOpeningPunct(lastEmitted) {
					emit(' ', i, j)
					lastEmitted = ' '
				}
			}
			i = j
			continue
		}
		t := transform(r)
		emit(t, i, i+size)
		lastEmitted = t
		i += size
	}
	return &mapped{text: b.String(), starts: starts, ends: ends}
}

// find locates normTarget in the normalized text and maps the first hit back
// to original byte offsets.
func (m *mapped) find(normTarget string) (start, end int, ok bool) {
	if normTarget == "" {
		return 0, 0, false
	}
	i := strings.Index(m.text, normTarget)
	if i < 0 {
		return 0, 0, false
	}
	return m.starts[i], m.ends[i+len(normTarget)-1], true
}

// normalizeTarget renders the target snippet the same way buildMapped renders
// the haystack, without the offset map.
func normalizeTarget(s string, transform func(rune) rune, collapseSpace bool) string {
	return buildMapped(s, transform, collapseSpace).text
}

// lowerRune is the transform for the case-folded strategy.
func lowerRune(r rune) rune { return unicode.ToLower(r) }
