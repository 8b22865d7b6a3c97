package inference

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Veraticus/docsift/internal/common"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// VectorizerState is the persisted state of a fitted TF-IDF vectorizer.
type VectorizerState struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	Lowercase   *bool          `json:"lowercase,omitempty"`
	Norm        string         `json:"norm,omitempty"`
	IDF         []float64      `json:"idf,omitempty"`
	SublinearTF bool           `json:"sublinear_tf"`
}

// Vectorizer maps text into the TF-IDF feature space of the fitted vocabulary.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	lowercase  bool
	sublinear  bool
	normalize  bool
}

// NewVectorizer checks state and builds a vectorizer from it.
func NewVectorizer(state VectorizerState) (*Vectorizer, error) {
	dim := len(state.Vocabulary)
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", common.ErrInvalidArtifact)
	}
	if len(state.IDF) != 0 && len(state.IDF) != dim {
		return nil, fmt.Errorf("%w: idf has %d entries for %d terms", common.ErrInvalidArtifact, len(state.IDF), dim)
	}
	for term, idx := range state.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%w: term %q has column %d outside [0,%d)", common.ErrInvalidArtifact, term, idx, dim)
		}
	}

	var normalize bool
	switch state.Norm {
	case "", "l2":
		normalize = true
	case "none":
	default:
		return nil, fmt.Errorf("%w: unsupported norm %q", common.ErrInvalidArtifact, state.Norm)
	}

	lowercase := true
	if state.Lowercase != nil {
		lowercase = *state.Lowercase
	}

	return &Vectorizer{
		vocabulary: state.Vocabulary,
		idf:        state.IDF,
		dimension:  dim,
		lowercase:  lowercase,
		sublinear:  state.SublinearTF,
		normalize:  normalize,
	}, nil
}

// Dimension returns the number of features.
func (v *Vectorizer) Dimension() int {
	return v.dimension
}

// Transform returns the sparse feature vector of text, keyed by column.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}

	norm := 0.0
	for idx, count := range counts {
		tf := count
		if v.sublinear {
			tf = 1 + math.Log(count)
		}
		if len(v.idf) > 0 {
			tf *= v.idf[idx]
		}
		counts[idx] = tf
		norm += tf * tf
	}

	if v.normalize && norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}

	return counts
}
