package engine

import (
	"context"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/validation"
)

// Classifier defines the contract for document type detection.
type Classifier interface {
	Classify(ctx context.Context, text string) model.Classification
	Explain(text string) []model.TypeScore
}

// Validator defines the contract for schema validation.
type Validator interface {
	Validate(ctx context.Context, data any, ref validation.SchemaRef) *model.ValidationResult
}
