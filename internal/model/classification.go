package model

// Method records which signal produced a classification.
type Method string

// Classification method constants.
const (
	MethodNone  Method = "none"
	MethodRules Method = "rules"
	MethodModel Method = "model"
)

// Classification is the outcome of classifying one document.
// An empty DocumentType means the document could not be classified.
type Classification struct {
	DocumentType string  `json:"document_type,omitempty"`
	Method       Method  `json:"method"`
	Confidence   float64 `json:"confidence"`
}

// Unclassified returns the (none, 0.0) result.
func Unclassified() Classification {
	return Classification{Method: MethodNone}
}

// Classified reports whether a document type was assigned.
func (c Classification) Classified() bool {
	return c.DocumentType != ""
}

// TypeScore is the rule score of a single document type, used for diagnostics.
type TypeScore struct {
	DocumentType string  `json:"document_type"`
	Matched      int     `json:"matched"`
	Max          int     `json:"max"`
	Score        float64 `json:"score"`
}
