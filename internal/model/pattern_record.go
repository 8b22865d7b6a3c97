// Package model defines the core data structures shared by the classifier and validator.
package model

import "strings"

// PatternRecord describes how to recognize one document type from its raw text.
type PatternRecord struct {
	DocumentType string   `json:"document_type" yaml:"document_type"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	Patterns     []string `json:"patterns" yaml:"patterns"`
}

// MaxScore is the score a document would reach by matching every keyword and pattern.
// Regex patterns weigh twice as much as keywords.
func (p PatternRecord) MaxScore() int {
	return len(p.Keywords) + 2*len(p.Patterns)
}

// Empty reports whether the record can never contribute a score.
func (p PatternRecord) Empty() bool {
	return p.MaxScore() == 0
}

// Validate ensures the record can be keyed.
func (p PatternRecord) Validate() error {
	if strings.TrimSpace(p.DocumentType) == "" {
		return ErrMissingDocumentType
	}
	return nil
}
