package models

// LocatedSpan is a finding's resolved character range in the document,
// tagged with the matching strategy that produced it and a fixed
// per-strategy confidence in [0,1].
type LocatedSpan struct {
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
	MatchedText string  `json:"matched_text"`
	Strategy    string  `json:"strategy"`
	Confidence  float64 `json:"confidence"`
}

// Highlight is the exact document range an annotation points at.
// QuotedText is always documentText[StartOffset:EndOffset]; ContextPrefix is
// a short snippet preceding the highlight, clipped to line boundaries, used
// by the UI for disambiguation.
type Highlight struct {
	StartOffset   int    `json:"start_offset"`
	EndOffset     int    `json:"end_offset"`
	QuotedText    string `json:"quoted_text"`
	ContextPrefix string `json:"context_prefix,omitempty"`
}

// Annotation is the final output unit: a plugin finding anchored to an exact
// document range. Strategy and Confidence are carried from the LocatedSpan so
// the UI can show a "fuzzy match" indicator for low-confidence anchors.
type Annotation struct {
	ID          string    `json:"id"`
	Plugin      string    `json:"plugin"`
	Description string    `json:"description"`
	// Importance is 1-10, mapped from the finding's severity.
	Importance int       `json:"importance"`
	Highlight  Highlight `json:"highlight"`
	Strategy   string    `json:"strategy"`
	Confidence float64   `json:"confidence"`
	Grade      *int      `json:"grade,omitempty"`
}
