package classification

import (
	"context"
	"fmt"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/inference"
	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/pattern"
)

// Classifier combines rule scoring with an optional statistical model.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	scorer   *pattern.Scorer
	model    inference.Model
	observer common.Observer
	policy   Policy
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel sets the statistical model. A nil model means rule-only mode.
func WithModel(m inference.Model) Option {
	return func(c *Classifier) {
		c.model = m
	}
}

// WithPolicy overrides the decision thresholds.
func WithPolicy(p Policy) Option {
	return func(c *Classifier) {
		c.policy = p
	}
}

// WithObserver sets the observer notified of model failures.
func WithObserver(o common.Observer) Option {
	return func(c *Classifier) {
		c.observer = common.OrNop(o)
	}
}

// New creates a classifier over the pattern store.
func New(store *pattern.Store, opts ...Option) *Classifier {
	c := &Classifier{
		scorer:   pattern.NewScorer(store),
		policy:   DefaultPolicy(),
		observer: common.NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasModel reports whether a statistical model is configured.
func (c *Classifier) HasModel() bool {
	return c.model != nil
}

// Classify returns the document type and confidence of text. It never fails:
// an unclassifiable text yields model.Unclassified().
func (c *Classifier) Classify(ctx context.Context, text string) model.Classification {
	if text == "" {
		return model.Unclassified()
	}

	return c.policy.Decide(c.ByRules(text), c.ByModel(ctx, text))
}

// ByRules returns the rule signal for text.
func (c *Classifier) ByRules(text string) Signal {
	docType, score := c.scorer.Score(text)
	return Signal{DocumentType: docType, Score: score}
}

// ByModel returns the model signal for text. Any model failure, including a
// panic, yields an empty signal.
func (c *Classifier) ByModel(ctx context.Context, text string) (sig Signal) {
	if c.model == nil || text == "" {
		return Signal{}
	}

	defer func() {
		if r := recover(); r != nil {
			c.observer.InferenceFailed(fmt.Errorf("model panic: %v", r))
			sig = Signal{}
		}
	}()

	pred, err := c.model.Predict(ctx, text)
	if err != nil {
		c.observer.InferenceFailed(err)
		return Signal{}
	}

	return Signal{DocumentType: pred.Label, Score: pred.Confidence()}
}

// Explain returns the rule score of every document type.
func (c *Classifier) Explain(text string) []model.TypeScore {
	return c.scorer.Explain(text)
}
