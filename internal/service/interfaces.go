// Package service defines the interfaces shared between the engine and its
// persistence layer.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/docsift/internal/model"
)

// RunFilter defines filtering options for journal queries.
type RunFilter struct {
	Since *time.Time
	Until *time.Time
	// Type matches the document type of classification runs and the schema
	// name of validation runs.
	Type  string
	Limit int
}

// ClassificationRun is one journaled classification.
type ClassificationRun struct {
	CreatedAt    time.Time
	ID           string
	Source       string
	DocumentType string
	Method       model.Method
	Confidence   float64
}

// ValidationRun is one journaled validation.
type ValidationRun struct {
	CreatedAt    time.Time
	Result       *model.ValidationResult
	ID           string
	Source       string
	SchemaName   string
	ErrorCount   int
	WarningCount int
	Valid        bool
}

// Stats aggregates journaled runs. ByDate counts classifications per UTC
// day, keyed YYYY-MM-DD. AvgConfidence includes unclassified runs.
type Stats struct {
	ByType             map[string]int
	ByMethod           map[model.Method]int
	ByDate             map[string]int
	AvgConfidence      float64
	Classifications    int
	Validations        int
	InvalidValidations int
}

// Journal defines the contract for recording engine runs.
type Journal interface {
	RecordClassification(ctx context.Context, source string, c model.Classification) (string, error)
	RecordValidation(ctx context.Context, source, schemaName string, result *model.ValidationResult) (string, error)
	ListClassifications(ctx context.Context, filter RunFilter) ([]ClassificationRun, error)
	ListValidations(ctx context.Context, filter RunFilter) ([]ValidationRun, error)
	Stats(ctx context.Context, filter RunFilter) (*Stats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
