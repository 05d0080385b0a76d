package models

// Severity is the severity level reported by a plugin for a finding.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ParseSeverity returns the severity for raw, defaulting to info for unknown values.
func ParseSeverity(raw string) Severity {
	s := Severity(raw)
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

// Finding is an unresolved issue reported by a plugin. TargetText is the
// snippet the plugin believes exists verbatim or near-verbatim in the
// document; the extraction step that produced it is lossy (whitespace
// normalization, paraphrase, truncation), so the snippet still has to be
// anchored to an exact range by the resolver.
type Finding struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Severity Severity               `json:"severity"`
	Message  string                 `json:"message"`
	// TargetText is the snippet to locate in the document.
	TargetText string `json:"target_text"`
	// LineHint is an approximate, possibly wrong, 1-based line number from the
	// plugin's own extraction step. 0 means no hint.
	LineHint int                    `json:"line_hint,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// HasLineHint reports whether the finding carries a usable line hint.
func (f *Finding) HasLineHint() bool {
	return f.LineHint > 0
}
