package classification

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/docsift/internal/inference"
	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	inferenceErrors []error
}

func (o *recordingObserver) LoadFailed(string, error) {}
func (o *recordingObserver) RuleFailed(string, error) {}
func (o *recordingObserver) InferenceFailed(err error) {
	o.inferenceErrors = append(o.inferenceErrors, err)
}

func fixedModel(label string, probs map[string]float64) inference.Model {
	return inference.ModelFunc(func(context.Context, string) (inference.Prediction, error) {
		return inference.Prediction{Label: label, Probabilities: probs}, nil
	})
}

func invoiceStore() *pattern.Store {
	return pattern.NewStore([]model.PatternRecord{
		{
			DocumentType: "invoice",
			Keywords:     []string{"DANFE", "Nota Fiscal", "NF-e"},
			Patterns:     []string{`NF-e nº\s*\d+`, `CNPJ:\s*\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`},
		},
	}, nil)
}

const invoiceText = "DANFE\nNF-e nº 123456\nCNPJ: 12.345.678/0001-90"

func TestClassifier_RulesOnly(t *testing.T) {
	c := New(invoiceStore())
	assert.False(t, c.HasModel())

	got := c.Classify(context.Background(), invoiceText)
	assert.Equal(t, "invoice", got.DocumentType)
	assert.Equal(t, model.MethodRules, got.Method)
	assert.Greater(t, got.Confidence, 0.5)

	assert.Equal(t, model.Unclassified(), c.Classify(context.Background(), "texto aleatório"))
	assert.Equal(t, model.Unclassified(), c.Classify(context.Background(), ""))
}

func TestClassifier_ConfidentModelWins(t *testing.T) {
	c := New(invoiceStore(), WithModel(fixedModel("receipt", map[string]float64{"receipt": 0.8, "invoice": 0.2})))

	got := c.Classify(context.Background(), invoiceText)
	assert.Equal(t, model.Classification{DocumentType: "receipt", Confidence: 0.8, Method: model.MethodModel}, got)
}

func TestClassifier_ModelFailureFallsBackToRules(t *testing.T) {
	obs := &recordingObserver{}
	failing := inference.ModelFunc(func(context.Context, string) (inference.Prediction, error) {
		return inference.Prediction{}, errors.New("vectorizer exploded")
	})

	c := New(invoiceStore(), WithModel(failing), WithObserver(obs))

	got := c.Classify(context.Background(), invoiceText)
	assert.Equal(t, "invoice", got.DocumentType)
	assert.Equal(t, model.MethodRules, got.Method)
	require.Len(t, obs.inferenceErrors, 1)
}

func TestClassifier_ModelPanicIsContained(t *testing.T) {
	obs := &recordingObserver{}
	panicking := inference.ModelFunc(func(context.Context, string) (inference.Prediction, error) {
		panic("index out of range")
	})

	c := New(pattern.NewStore(nil, nil), WithModel(panicking), WithObserver(obs))

	assert.Equal(t, model.Unclassified(), c.Classify(context.Background(), "anything"))
	require.Len(t, obs.inferenceErrors, 1)
	assert.Contains(t, obs.inferenceErrors[0].Error(), "index out of range")
}

func TestClassifier_WeakSignals(t *testing.T) {
	store := pattern.NewStore([]model.PatternRecord{
		{DocumentType: "contract", Keywords: []string{"contrato", "cláusula", "testemunhas", "foro"}},
	}, nil)
	c := New(store, WithModel(fixedModel("receipt", map[string]float64{"receipt": 0.4, "contract": 0.35, "invoice": 0.25})))

	got := c.Classify(context.Background(), "contrato simples")
	assert.Equal(t, model.Classification{DocumentType: "receipt", Confidence: 0.4, Method: model.MethodModel}, got)
}

func TestClassifier_Explain(t *testing.T) {
	scores := New(invoiceStore()).Explain(invoiceText)
	require.Len(t, scores, 1)
	assert.Equal(t, 6, scores[0].Matched)
	assert.Equal(t, 7, scores[0].Max)
}
