package model

import "errors"

// Record validation errors.
var (
	ErrMissingDocumentType = errors.New("document_type is required")
	ErrMissingFields       = errors.New("fields are required")
	ErrMissingFieldType    = errors.New("field type is required")
	ErrInvalidSeverity     = errors.New("severity must be error or warning")
	ErrInvalidRule         = errors.New("custom validation needs a name and a condition")
)
