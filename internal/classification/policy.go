// Package classification assigns a document type and a confidence to raw text.
package classification

import "github.com/Veraticus/docsift/internal/model"

// Default decision thresholds.
const (
	DefaultModelThreshold = 0.7
	DefaultRuleThreshold  = 0.6
)

// Signal is the (type, score) output of one classification signal.
type Signal struct {
	DocumentType string
	Score        float64
}

// Policy combines the rule and model signals into a single result.
// The model is trusted only above ModelThreshold; rules are preferred at
// moderate confidence.
type Policy struct {
	ModelThreshold float64
	RuleThreshold  float64
}

// DefaultPolicy returns the policy with the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ModelThreshold: DefaultModelThreshold,
		RuleThreshold:  DefaultRuleThreshold,
	}
}

// Decide applies the decision order; the first matching step wins.
// Exact ties between two positive scores go to the rules.
func (p Policy) Decide(rules, ml Signal) model.Classification {
	switch {
	case ml.Score > p.ModelThreshold:
		return fromModel(ml)
	case rules.Score > p.RuleThreshold:
		return fromRules(rules)
	case ml.Score > 0 && rules.Score > 0:
		if ml.Score > rules.Score {
			return fromModel(ml)
		}
		return fromRules(rules)
	case ml.Score > 0:
		return fromModel(ml)
	case rules.Score > 0:
		return fromRules(rules)
	}
	return model.Unclassified()
}

func fromModel(s Signal) model.Classification {
	return model.Classification{DocumentType: s.DocumentType, Confidence: s.Score, Method: model.MethodModel}
}

func fromRules(s Signal) model.Classification {
	return model.Classification{DocumentType: s.DocumentType, Confidence: s.Score, Method: model.MethodRules}
}
