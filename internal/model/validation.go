package model

// SchemaErrorKey is the errors key used when no schema could be resolved.
const SchemaErrorKey = "error"

// Record is one set of extracted field values keyed by field name.
type Record map[string]any

// Table is a tabular batch of records sharing the same columns.
type Table struct {
	Columns []string
	Rows    []Record
}

// ValidationResult is the outcome of validating a record or a table.
type ValidationResult struct {
	Errors   map[string]string   `json:"errors"`
	Warnings map[string]string   `json:"warnings"`
	Rows     []*ValidationResult `json:"row_results,omitempty"`
	Valid    bool                `json:"valid"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make(map[string]string),
		Warnings: make(map[string]string),
	}
}

// AddError files a blocking message and marks the result invalid.
func (r *ValidationResult) AddError(key, message string) {
	r.Errors[key] = message
	r.Valid = false
}

// AddWarning files an advisory message.
func (r *ValidationResult) AddWarning(key, message string) {
	r.Warnings[key] = message
}

// Add files the message as an error or a warning.
func (r *ValidationResult) Add(key, message string, blocking bool) {
	if blocking {
		r.AddError(key, message)
		return
	}
	r.AddWarning(key, message)
}

// ErrorCount returns the number of errors, including those of every row.
func (r *ValidationResult) ErrorCount() int {
	n := len(r.Errors)
	for _, row := range r.Rows {
		n += row.ErrorCount()
	}
	return n
}

// WarningCount returns the number of warnings, including those of every row.
func (r *ValidationResult) WarningCount() int {
	n := len(r.Warnings)
	for _, row := range r.Rows {
		n += row.WarningCount()
	}
	return n
}
