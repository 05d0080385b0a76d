// Package storage defines the persistence interface for documents and evaluations.
package storage

import (
	"context"

	"github.com/hyperjump/tensaku/internal/models"
)

// Storage defines document and evaluation persistence operations.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Evaluation operations. An evaluation is one analysis run over a
	// document, stored together with its annotations.
	CreateEvaluation(ctx context.Context, eval *models.Evaluation) error
	GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error)
	ListEvaluationsByDocument(ctx context.Context, docID string) ([]*models.Evaluation, error)
	DeleteEvaluationsByDocument(ctx context.Context, docID string) error

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountEvaluations(ctx context.Context) (int64, error)

	Close() error
}
