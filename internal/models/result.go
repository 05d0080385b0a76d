package models

import "time"

// PluginError records a single plugin's failure during an analysis run.
// Failed plugins contribute no findings; the rest of the run proceeds.
type PluginError struct {
	Plugin  string `json:"plugin"`
	Message string `json:"message"`
}

// AnalysisStats summarizes an analysis run.
type AnalysisStats struct {
	TotalChunks      int            `json:"total_chunks"`
	TotalFindings    int            `json:"total_findings"`
	CommentsByPlugin map[string]int `json:"comments_by_plugin"`
	// DroppedFindings counts findings that could not be anchored anywhere in
	// the document. Dropping is expected behavior, not an error.
	DroppedFindings  int            `json:"dropped_findings"`
	TotalCost        float64        `json:"total_cost"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	PluginErrors     []PluginError  `json:"plugin_errors,omitempty"`
}

// AnalysisResult is what the engine returns to the caller: every annotation
// that was successfully anchored, plus stats identifying which plugins (if
// any) failed so a clean run with few issues can be told apart from a run
// where a plugin crashed.
type AnalysisResult struct {
	Summary     string        `json:"summary"`
	Annotations []*Annotation `json:"annotations"`
	Stats       AnalysisStats `json:"stats"`
}

// Evaluation is a persisted analysis run for a document.
type Evaluation struct {
	ID          string        `json:"id" db:"id"`
	DocumentID  string        `json:"document_id" db:"document_id"`
	Summary     string        `json:"summary" db:"summary"`
	Annotations []*Annotation `json:"annotations"`
	Stats       AnalysisStats `json:"stats"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
