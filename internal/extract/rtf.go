package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// rtfSkipGroup matches destination groups whose content is not body text
	// (font tables, style sheets, metadata). Nested braces inside these
	// groups are rare in practice; one level is handled.
	rtfSkipGroup = regexp.MustCompile(`\{\\\*?(?:fonttbl|colortbl|stylesheet|info|pict)[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
	// rtfPar matches paragraph breaks.
	rtfPar = regexp.MustCompile(`\\par[d]?\b`)
	// rtfControl matches any remaining control word with its optional
	// numeric parameter and trailing space.
	rtfControl = regexp.MustCompile(`\\[a-zA-Z]+-?\d* ?`)
	// rtfHexEscape matches \'xx character escapes.
	rtfHexEscape = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
	rtfWhitespace = regexp.MustCompile(`[ \t]+`)
)

// extractRTF extracts plain text from RTF bytes by stripping control words
// and destination groups. Good enough for prose documents; exotic embedded
// objects come out empty rather than erroring.
func extractRTF(content []byte) (string, error) {
	text := string(content)
	if !strings.HasPrefix(text, `{\rtf`) {
		return "", fmt.Errorf("extract RTF: missing rtf header")
	}

	text = rtfSkipGroup.ReplaceAllString(text, "")
	text = rtfPar.ReplaceAllString(text, "\n")
	text = rtfHexEscape.ReplaceAllString(text, "")
	text = rtfControl.ReplaceAllString(text, "")
	text = strings.NewReplacer("{", "", "}", "", `\\`, `\`).Replace(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(rtfWhitespace.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
