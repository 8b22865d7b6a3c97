package model

import (
	"fmt"
	"slices"
	"strings"
)

// FieldType names the value domain a field is checked against.
type FieldType string

// Field type constants.
const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDecimal FieldType = "decimal"
	FieldInteger FieldType = "integer"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldEmail   FieldType = "email"
	FieldCPF     FieldType = "cpf"
	FieldCNPJ    FieldType = "cnpj"
	FieldEnum    FieldType = "enum"
)

// Severity classifies a failed check as blocking or advisory.
type Severity string

// Severity constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IsWarning reports whether the severity is advisory. An unset severity is an error.
func (s Severity) IsWarning() bool {
	return s == SeverityWarning
}

func (s Severity) valid() bool {
	return s == "" || s == SeverityError || s == SeverityWarning
}

// FieldSchema describes the constraints on one field of a record.
type FieldSchema struct {
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Type        FieldType      `json:"type" yaml:"type"`
	Severity    Severity       `json:"severity,omitempty" yaml:"severity,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool           `json:"required" yaml:"required"`
}

// Blocking reports whether a failed check on this field is an error rather than a warning.
func (f FieldSchema) Blocking() bool {
	return f.Required || !f.Severity.IsWarning()
}

// CustomValidation is a named boolean condition evaluated over a whole record.
type CustomValidation struct {
	Name      string   `json:"name" yaml:"name"`
	Condition string   `json:"condition" yaml:"condition"`
	Message   string   `json:"message" yaml:"message"`
	Severity  Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// ValidationSchema is a named set of field definitions and custom rules.
type ValidationSchema struct {
	Fields            map[string]FieldSchema `json:"fields" yaml:"fields"`
	Name              string                 `json:"name" yaml:"name"`
	Description       string                 `json:"description" yaml:"description"`
	Version           string                 `json:"version" yaml:"version"`
	CustomValidations []CustomValidation     `json:"custom_validations,omitempty" yaml:"custom_validations,omitempty"`
	Strict            bool                   `json:"strict" yaml:"strict"`
}

// Validate checks the structure of a schema loaded from disk.
func (s *ValidationSchema) Validate() error {
	if s.Fields == nil {
		return ErrMissingFields
	}

	for name, field := range s.Fields {
		if strings.TrimSpace(string(field.Type)) == "" {
			return fmt.Errorf("field %q: %w", name, ErrMissingFieldType)
		}
		if !field.Severity.valid() {
			return fmt.Errorf("field %q: %w", name, ErrInvalidSeverity)
		}
	}

	for i, rule := range s.CustomValidations {
		if rule.Name == "" || strings.TrimSpace(rule.Condition) == "" {
			return fmt.Errorf("custom validation %d: %w", i, ErrInvalidRule)
		}
		if !rule.Severity.valid() {
			return fmt.Errorf("custom validation %q: %w", rule.Name, ErrInvalidSeverity)
		}
	}

	return nil
}

// Clone returns a deep copy of s. Nested option lists and maps are copied too.
func (s *ValidationSchema) Clone() *ValidationSchema {
	if s == nil {
		return nil
	}

	c := *s
	if s.Fields != nil {
		c.Fields = make(map[string]FieldSchema, len(s.Fields))
		for name, field := range s.Fields {
			if field.Options != nil {
				field.Options = cloneValue(field.Options).(map[string]any)
			}
			c.Fields[name] = field
		}
	}
	c.CustomValidations = slices.Clone(s.CustomValidations)
	return &c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
