package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// odfContentPath is the path to the main content inside an OpenDocument zip.
const odfContentPath = "content.xml"

// odfBlockTag matches text:p and text:h elements (with optional attributes)
// in a single alternation so paragraphs and headings come out in document
// order. Go regexps have no backreferences, hence one branch per tag.
var odfBlockTag = regexp.MustCompile(`<text:p[^>]*>([^<]*)</text:p>|<text:h[^>]*>([^<]*)</text:h>`)

// odfSpanTag matches text:span elements nested inside styled paragraphs.
var odfSpanTag = regexp.MustCompile(`<text:span[^>]*>([^<]*)</text:span>`)

// extractODF extracts text from OpenDocument (.odt) bytes: a ZIP containing
// content.xml. Each text:p/text:h element becomes one line, preserving the
// document's line structure for downstream line hints.
func extractODF(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract ODF: not a zip: %w", err)
	}
	contentXML, err := readZipEntry(zr, odfContentPath)
	if err != nil {
		return "", fmt.Errorf("extract ODF: %w", err)
	}
	if contentXML == nil {
		return "", fmt.Errorf("extract ODF: %s not found", odfContentPath)
	}

	xml := string(contentXML)
	var lines []string
	for _, m := range odfBlockTag.FindAllStringSubmatch(xml, -1) {
		text := m[1]
		if text == "" {
			text = m[2]
		}
		if text = strings.TrimSpace(text); text != "" {
			lines = append(lines, text)
		}
	}
	// Spans inside styled paragraphs are not captured by the block pass
	// (the paragraph body then contains markup, not bare text).
	for _, m := range odfSpanTag.FindAllStringSubmatch(xml, -1) {
		if text := strings.TrimSpace(m[1]); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
