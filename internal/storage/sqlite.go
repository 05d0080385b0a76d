// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/tensaku/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	// Cascading deletes from documents to evaluations to annotations.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT,
		content TEXT NOT NULL,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		summary TEXT,
		stats TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_document_id ON evaluations(document_id);

	CREATE TABLE IF NOT EXISTS annotations (
		id TEXT PRIMARY KEY,
		evaluation_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		plugin TEXT NOT NULL,
		description TEXT,
		importance INTEGER NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		quoted_text TEXT NOT NULL,
		context_prefix TEXT,
		strategy TEXT NOT NULL,
		confidence REAL NOT NULL,
		grade INTEGER,
		FOREIGN KEY (evaluation_id) REFERENCES evaluations(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_evaluation ON annotations(evaluation_id, position);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateDocument inserts a document.
func (s *SQLiteStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Content, string(metadataJSON), doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

// GetDocument returns a document by ID.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	var metadataJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, metadata, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Title, &doc.Content, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &doc, nil
}

// UpdateDocument updates an existing document.
func (s *SQLiteStorage) UpdateDocument(ctx context.Context, doc *models.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	doc.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, content = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Title, doc.Content, string(metadataJSON), doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("document not found: %s", doc.ID)
	}
	return nil
}

// DeleteDocument removes a document by ID.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// ListDocuments returns documents with offset and limit.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, metadata, created_at, updated_at
		 FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		var metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if metadataJSON != "" {
			_ = json.Unmarshal([]byte(metadataJSON), &doc.Metadata)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CreateEvaluation inserts an evaluation and its annotations in one transaction.
func (s *SQLiteStorage) CreateEvaluation(ctx context.Context, eval *models.Evaluation) error {
	statsJSON, err := json.Marshal(eval.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	eval.CreatedAt = time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO evaluations (id, document_id, summary, stats, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eval.ID, eval.DocumentID, eval.Summary, string(statsJSON), eval.CreatedAt,
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO annotations (id, evaluation_id, position, plugin, description, importance,
		 start_offset, end_offset, quoted_text, context_prefix, strategy, confidence, grade)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ann := range eval.Annotations {
		if _, err := stmt.ExecContext(ctx,
			ann.ID, eval.ID, i, ann.Plugin, ann.Description, ann.Importance,
			ann.Highlight.StartOffset, ann.Highlight.EndOffset,
			ann.Highlight.QuotedText, ann.Highlight.ContextPrefix,
			ann.Strategy, ann.Confidence, ann.Grade,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetEvaluation returns an evaluation by ID, annotations included.
func (s *SQLiteStorage) GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	eval, err := s.scanEvaluation(s.db.QueryRowContext(ctx,
		`SELECT id, document_id, summary, stats, created_at
		 FROM evaluations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("evaluation not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	eval.Annotations, err = s.annotationsFor(ctx, eval.ID)
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// ListEvaluationsByDocument returns all evaluations for a document, newest
// first, annotations included.
func (s *SQLiteStorage) ListEvaluationsByDocument(ctx context.Context, docID string) ([]*models.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, summary, stats, created_at
		 FROM evaluations WHERE document_id = ? ORDER BY created_at DESC`,
		docID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		eval, err := s.scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, eval := range evals {
		if eval.Annotations, err = s.annotationsFor(ctx, eval.ID); err != nil {
			return nil, err
		}
	}
	return evals, nil
}

// DeleteEvaluationsByDocument removes all evaluations for a document.
func (s *SQLiteStorage) DeleteEvaluationsByDocument(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE document_id = ?`, docID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStorage) scanEvaluation(row rowScanner) (*models.Evaluation, error) {
	var eval models.Evaluation
	var statsJSON string
	if err := row.Scan(&eval.ID, &eval.DocumentID, &eval.Summary, &statsJSON, &eval.CreatedAt); err != nil {
		return nil, err
	}
	if statsJSON != "" {
		if err := json.Unmarshal([]byte(statsJSON), &eval.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
	}
	return &eval, nil
}

func (s *SQLiteStorage) annotationsFor(ctx context.Context, evalID string) ([]*models.Annotation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plugin, description, importance, start_offset, end_offset,
		 quoted_text, context_prefix, strategy, confidence, grade
		 FROM annotations WHERE evaluation_id = ? ORDER BY position`,
		evalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anns []*models.Annotation
	for rows.Next() {
		var ann models.Annotation
		var prefix sql.NullString
		var grade sql.NullInt64
		if err := rows.Scan(&ann.ID, &ann.Plugin, &ann.Description, &ann.Importance,
			&ann.Highlight.StartOffset, &ann.Highlight.EndOffset,
			&ann.Highlight.QuotedText, &prefix, &ann.Strategy, &ann.Confidence, &grade); err != nil {
			return nil, err
		}
		if prefix.Valid {
			ann.Highlight.ContextPrefix = prefix.String
		}
		if grade.Valid {
			g := int(grade.Int64)
			ann.Grade = &g
		}
		anns = append(anns, &ann)
	}
	return anns, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountEvaluations returns the total number of stored evaluations.
func (s *SQLiteStorage) CountEvaluations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
