package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrInvalidDateRange      = errors.New("start date must be before end date")
	ErrInvalidMethod         = errors.New("invalid classification method")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrInvalidLimit          = errors.New("limit cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateClassification(c model.Classification) error {
	switch c.Method {
	case model.MethodNone:
		if c.DocumentType != "" {
			return fmt.Errorf("%w: unclassified result carries type %q", ErrInvalidClassification, c.DocumentType)
		}
	case model.MethodRules, model.MethodModel:
		if strings.TrimSpace(c.DocumentType) == "" {
			return fmt.Errorf("%w: missing document type", ErrInvalidClassification)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, c.Method)
	}

	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidClassification)
	}
	return nil
}

func validateResult(result *model.ValidationResult) error {
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	return nil
}

func validateFilter(filter service.RunFilter) error {
	if filter.Limit < 0 {
		return ErrInvalidLimit
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return fmt.Errorf("%w: until %v is before since %v", ErrInvalidDateRange, *filter.Until, *filter.Since)
	}
	return nil
}
