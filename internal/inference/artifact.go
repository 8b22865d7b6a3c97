package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/Veraticus/docsift/internal/common"
)

// Artifact is the persisted (vectorizer, classifier) pair.
type Artifact struct {
	Kind       string          `json:"kind"`
	Vectorizer VectorizerState `json:"vectorizer"`
	Classifier ClassifierState `json:"classifier"`
}

// Pipeline is a loaded artifact. It is immutable and safe for concurrent use.
type Pipeline struct {
	vectorizer *Vectorizer
	classifier classifier
	classes    []string
}

// NewPipeline validates an artifact and builds a pipeline from it.
func NewPipeline(a Artifact) (*Pipeline, error) {
	vec, err := NewVectorizer(a.Vectorizer)
	if err != nil {
		return nil, err
	}

	if len(a.Classifier.Classes) < 2 {
		return nil, fmt.Errorf("%w: at least two classes are required", common.ErrInvalidArtifact)
	}

	var clf classifier
	switch a.Kind {
	case KindLinear, "":
		clf, err = newLinear(a.Classifier, vec.Dimension())
	case KindNaiveBayes:
		clf, err = newNaiveBayes(a.Classifier, vec.Dimension())
	default:
		err = fmt.Errorf("%w: unknown kind %q", common.ErrInvalidArtifact, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		vectorizer: vec,
		classifier: clf,
		classes:    a.Classifier.Classes,
	}, nil
}

// LoadArtifact reads a JSON artifact from path.
func LoadArtifact(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidArtifact, err)
	}

	return NewPipeline(a)
}

// Open loads the artifact at path. An empty path, or a load failure reported to
// obs, yields a nil Model so that callers run in rule-only mode.
func Open(path string, obs common.Observer) Model {
	if path == "" {
		return nil
	}

	p, err := LoadArtifact(path)
	if err != nil {
		common.OrNop(obs).LoadFailed(path, err)
		return nil
	}
	return p
}

// Classes returns the labels known to the classifier.
func (p *Pipeline) Classes() []string {
	return append([]string(nil), p.classes...)
}

// Predict implements Model.
func (p *Pipeline) Predict(ctx context.Context, text string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	probs := p.classifier.probabilities(p.vectorizer.Transform(text))

	pred := Prediction{Probabilities: make(map[string]float64, len(probs))}
	best := -1
	for i, prob := range probs {
		if math.IsNaN(prob) {
			return Prediction{}, fmt.Errorf("%w: probability for %q is NaN", common.ErrInvalidArtifact, p.classes[i])
		}
		pred.Probabilities[p.classes[i]] = prob
		if best < 0 || prob > probs[best] {
			best = i
		}
	}
	pred.Label = p.classes[best]

	return pred, nil
}
