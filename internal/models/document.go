// Package models defines core data structures for documents, chunks, findings, and annotations.
package models

import "time"

// Document represents a stored document with metadata.
type Document struct {
	ID        string                 `json:"id" db:"id"`
	Title     string                 `json:"title" db:"title"`
	Content   string                 `json:"content" db:"content"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentInput is the input for creating or updating a document.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Chunk is a contiguous slice of a document used to parallelize plugin analysis.
// StartOffset and StartLine anchor the chunk in the original document: any byte
// offset found inside Text translates to a document-absolute offset by adding
// StartOffset. Chunks are created once per analysis run and are read-only
// afterwards; they are never reused across documents.
type Chunk struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	// StartLine is the 0-based line index of the chunk's first line in the document.
	StartLine int `json:"start_line"`
}

// EndOffset returns the document-absolute offset just past the chunk's text.
func (c *Chunk) EndOffset() int {
	return c.StartOffset + len(c.Text)
}
