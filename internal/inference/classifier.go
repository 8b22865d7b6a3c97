package inference

import (
	"fmt"
	"math"

	"github.com/Veraticus/docsift/internal/common"
)

// Classifier kinds.
const (
	KindLinear     = "linear"
	KindNaiveBayes = "naive_bayes"
)

// ClassifierState is the persisted state of a probabilistic classifier.
// Linear classifiers use Coef and Intercept; naive Bayes uses ClassLogPrior
// and FeatureLogProb.
type ClassifierState struct {
	Classes        []string    `json:"classes"`
	Coef           [][]float64 `json:"coef,omitempty"`
	Intercept      []float64   `json:"intercept,omitempty"`
	ClassLogPrior  []float64   `json:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty"`
}

type classifier interface {
	probabilities(x map[int]float64) []float64
}

// linear is a logistic regression. A single coefficient row is the binary case
// and scores the second class.
type linear struct {
	coef      [][]float64
	intercept []float64
}

func newLinear(state ClassifierState, dim int) (*linear, error) {
	rows := len(state.Coef)
	switch {
	case rows == 1 && len(state.Classes) == 2:
	case rows == len(state.Classes):
	default:
		return nil, fmt.Errorf("%w: %d coefficient rows for %d classes", common.ErrInvalidArtifact, rows, len(state.Classes))
	}
	if err := checkMatrix(state.Coef, dim, "coef"); err != nil {
		return nil, err
	}

	intercept := state.Intercept
	if len(intercept) == 0 {
		intercept = make([]float64, rows)
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("%w: intercept has %d entries for %d rows", common.ErrInvalidArtifact, len(intercept), rows)
	}

	return &linear{coef: state.Coef, intercept: intercept}, nil
}

func (l *linear) probabilities(x map[int]float64) []float64 {
	scores := make([]float64, len(l.coef))
	for k, row := range l.coef {
		scores[k] = l.intercept[k] + dot(row, x)
	}

	if len(scores) == 1 {
		p := 1 / (1 + math.Exp(-scores[0]))
		return []float64{1 - p, p}
	}
	return softmax(scores)
}

type naiveBayes struct {
	classLogPrior  []float64
	featureLogProb [][]float64
}

func newNaiveBayes(state ClassifierState, dim int) (*naiveBayes, error) {
	n := len(state.Classes)
	if len(state.ClassLogPrior) != n || len(state.FeatureLogProb) != n {
		return nil, fmt.Errorf("%w: naive bayes state does not match %d classes", common.ErrInvalidArtifact, n)
	}
	if err := checkMatrix(state.FeatureLogProb, dim, "feature_log_prob"); err != nil {
		return nil, err
	}
	return &naiveBayes{classLogPrior: state.ClassLogPrior, featureLogProb: state.FeatureLogProb}, nil
}

func (nb *naiveBayes) probabilities(x map[int]float64) []float64 {
	jll := make([]float64, len(nb.classLogPrior))
	for k, prior := range nb.classLogPrior {
		jll[k] = prior + dot(nb.featureLogProb[k], x)
	}
	return softmax(jll)
}

func checkMatrix(m [][]float64, dim int, name string) error {
	for i, row := range m {
		if len(row) != dim {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d", common.ErrInvalidArtifact, name, i, len(row), dim)
		}
	}
	return nil
}

func dot(row []float64, x map[int]float64) float64 {
	sum := 0.0
	for idx, v := range x {
		sum += row[idx] * v
	}
	return sum
}

// softmax normalizes scores into probabilities using the log-sum-exp shift.
func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}

	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
