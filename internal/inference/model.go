// Package inference adapts an externally trained text classifier to the engine.
//
// The engine depends only on the Model interface. The bundled implementation
// reads a JSON artifact holding the state of a TF-IDF vectorizer and a linear or
// naive Bayes classifier, as exported from a training pipeline.
package inference

import "context"

// Prediction is the output of a model for one text.
type Prediction struct {
	Probabilities map[string]float64
	Label         string
}

// Confidence returns the maximum class probability.
func (p Prediction) Confidence() float64 {
	best := 0.0
	for _, prob := range p.Probabilities {
		if prob > best {
			best = prob
		}
	}
	return best
}

// Model predicts a label and a probability distribution for raw text.
type Model interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, text string) (Prediction, error)

// Predict implements Model.
func (f ModelFunc) Predict(ctx context.Context, text string) (Prediction, error) {
	return f(ctx, text)
}
