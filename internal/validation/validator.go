// Package validation checks extracted document data against validation
// schemas: per-field type checks, required fields, strict mode and custom
// CEL rules, for single records and for tables of records.
package validation

import (
	"context"
	"fmt"
	"sort"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/schema"
)

// SchemaRef names the schema to validate against. An inline schema wins over
// a name.
type SchemaRef struct {
	Schema *model.ValidationSchema
	Name   string
}

// ByName references a schema held by the validator's store.
func ByName(name string) SchemaRef {
	return SchemaRef{Name: name}
}

// Using references an inline schema.
func Using(s *model.ValidationSchema) SchemaRef {
	return SchemaRef{Schema: s}
}

// Validator orchestrates schema validation.
type Validator struct {
	schemas  *schema.Store
	fields   *FieldValidator
	rules    *RuleEvaluator
	observer common.Observer
}

// Option configures a Validator.
type Option func(*Validator)

// WithRuleEvaluator replaces the default custom rule evaluator.
func WithRuleEvaluator(r *RuleEvaluator) Option {
	return func(v *Validator) {
		v.rules = r
	}
}

// WithObserver sets the observer notified about failing custom rules.
func WithObserver(o common.Observer) Option {
	return func(v *Validator) {
		v.observer = o
	}
}

// New creates a validator over schemas. A nil store holds no schemas.
func New(schemas *schema.Store, opts ...Option) (*Validator, error) {
	if schemas == nil {
		schemas = schema.NewStore(nil)
	}

	v := &Validator{
		schemas:  schemas,
		fields:   NewFieldValidator(),
		observer: common.NopObserver{},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.observer = common.OrNop(v.observer)

	if v.rules == nil {
		rules, err := NewRuleEvaluator(DefaultRuleTimeout, DefaultRuleCostLimit)
		if err != nil {
			return nil, err
		}
		v.rules = rules
	}
	return v, nil
}

// Schemas returns the schema store.
func (v *Validator) Schemas() *schema.Store {
	return v.schemas
}

// Validate dispatches on the input shape: a model.Record or map validates as
// one record, a model.Table or slice of records validates row by row.
func (v *Validator) Validate(ctx context.Context, data any, ref SchemaRef) *model.ValidationResult {
	switch d := data.(type) {
	case model.Record:
		return v.ValidateRecord(ctx, d, ref)
	case map[string]any:
		return v.ValidateRecord(ctx, d, ref)
	case model.Table:
		return v.ValidateTable(ctx, d, ref)
	case *model.Table:
		if d == nil {
			return v.ValidateTable(ctx, model.Table{}, ref)
		}
		return v.ValidateTable(ctx, *d, ref)
	case []model.Record:
		return v.ValidateTable(ctx, model.Table{Rows: d}, ref)
	case []map[string]any:
		rows := make([]model.Record, len(d))
		for i, r := range d {
			rows[i] = r
		}
		return v.ValidateTable(ctx, model.Table{Rows: rows}, ref)
	}

	result := model.NewValidationResult()
	result.AddError(model.SchemaErrorKey, fmt.Sprintf("unsupported input type %T", data))
	return result
}

// ValidateRecord validates one record.
func (v *Validator) ValidateRecord(ctx context.Context, record model.Record, ref SchemaRef) *model.ValidationResult {
	s, failure := v.resolve(ref)
	if failure != nil {
		return failure
	}
	return v.validateRecord(ctx, record, s)
}

// ValidateTable validates every row independently. A single-row table yields
// that row's result; otherwise the combined result is valid only when every
// row is, and carries the per-row results.
func (v *Validator) ValidateTable(ctx context.Context, table model.Table, ref SchemaRef) *model.ValidationResult {
	s, failure := v.resolve(ref)
	if failure != nil {
		return failure
	}

	if len(table.Rows) == 1 {
		return v.validateRecord(ctx, table.Rows[0], s)
	}

	combined := model.NewValidationResult()
	combined.Rows = make([]*model.ValidationResult, 0, len(table.Rows))
	for _, row := range table.Rows {
		r := v.validateRecord(ctx, row, s)
		combined.Rows = append(combined.Rows, r)
		if !r.Valid {
			combined.Valid = false
		}
	}
	return combined
}

func (v *Validator) resolve(ref SchemaRef) (*model.ValidationSchema, *model.ValidationResult) {
	if ref.Schema != nil {
		return ref.Schema, nil
	}

	s, ok := v.schemas.Get(ref.Name)
	if !ok {
		failure := model.NewValidationResult()
		failure.AddError(model.SchemaErrorKey, fmt.Sprintf("schema not found: %s", ref.Name))
		return nil, failure
	}
	return s, nil
}

func (v *Validator) validateRecord(ctx context.Context, record model.Record, s *model.ValidationSchema) *model.ValidationResult {
	result := model.NewValidationResult()

	for _, name := range sortedFields(s.Fields) {
		field := s.Fields[name]
		if !field.Required {
			continue
		}
		if value, ok := record[name]; !ok || isEmpty(value) {
			result.AddError(name, "required field not filled")
		}
	}

	for _, name := range sortedKeys(record) {
		value := record[name]
		field, known := s.Fields[name]
		if !known {
			if s.Strict {
				result.AddWarning(name, "field not defined in schema")
			}
			continue
		}
		if _, failed := result.Errors[name]; failed {
			continue
		}
		if err := v.fields.Validate(value, field.Type, field.Options); err != nil {
			result.Add(name, err.Error(), field.Blocking())
		}
	}

	for _, rule := range s.CustomValidations {
		v.applyRule(ctx, rule, record, result)
	}
	return result
}

func (v *Validator) applyRule(ctx context.Context, rule model.CustomValidation, record model.Record, result *model.ValidationResult) {
	holds, err := v.rules.Evaluate(ctx, rule.Condition, record)
	if err != nil {
		v.observer.RuleFailed(rule.Name, err)
		result.AddWarning(rule.Name, fmt.Sprintf("validation error: %v", err))
		return
	}
	if holds {
		return
	}

	message := rule.Message
	if message == "" {
		message = fmt.Sprintf("custom validation failed: %s", rule.Name)
	}
	result.Add(rule.Name, message, !rule.Severity.IsWarning())
}

// isEmpty reports missing-equivalent values: nil and empty strings.
func isEmpty(value any) bool {
	switch x := value.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}

func sortedFields(fields map[string]model.FieldSchema) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(record model.Record) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
