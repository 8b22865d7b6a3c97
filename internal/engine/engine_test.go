package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsift/internal/config"
	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
	"github.com/Veraticus/docsift/internal/testutil"
	"github.com/Veraticus/docsift/internal/validation"
)

type stubClassifier struct {
	calls atomic.Int32
}

func (s *stubClassifier) Classify(_ context.Context, text string) model.Classification {
	s.calls.Add(1)
	if text == "" {
		return model.Unclassified()
	}
	return model.Classification{DocumentType: text, Confidence: 0.9, Method: model.MethodRules}
}

func (s *stubClassifier) Explain(string) []model.TypeScore {
	return []model.TypeScore{{DocumentType: "invoice", Matched: 1, Max: 2, Score: 0.5}}
}

type stubValidator struct{}

func (stubValidator) Validate(_ context.Context, _ any, ref validation.SchemaRef) *model.ValidationResult {
	result := model.NewValidationResult()
	if ref.Name != "invoice" {
		result.AddError(model.SchemaErrorKey, "schema not found: "+ref.Name)
	}
	return result
}

type failingJournal struct {
	service.Journal
}

func (failingJournal) RecordClassification(context.Context, string, model.Classification) (string, error) {
	return "", errors.New("disk full")
}

func (failingJournal) RecordValidation(context.Context, string, string, *model.ValidationResult) (string, error) {
	return "", errors.New("disk full")
}

func TestEngine_ClassifyWithoutJournal(t *testing.T) {
	e := New(&stubClassifier{}, stubValidator{})

	r, err := e.Classify(context.Background(), Document{Source: "a.txt", Text: "invoice"})
	require.NoError(t, err)
	assert.Equal(t, "invoice", r.Classification.DocumentType)
	assert.Empty(t, r.RunID)
	assert.False(t, e.Journaled())
}

func TestEngine_ClassifyJournals(t *testing.T) {
	journal := testutil.SetupJournal(t)
	e := New(&stubClassifier{}, stubValidator{}, WithJournal(journal))
	ctx := context.Background()

	r, err := e.Classify(ctx, Document{Source: "a.txt", Text: "invoice"})
	require.NoError(t, err)
	assert.NotEmpty(t, r.RunID)

	_, err = e.Classify(ctx, Document{Source: "blank.txt"})
	require.NoError(t, err)

	runs, err := journal.ListClassifications(ctx, service.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestEngine_ClassifyJournalFailure(t *testing.T) {
	var logs bytes.Buffer
	e := New(&stubClassifier{}, stubValidator{}, WithJournal(failingJournal{}), WithLogger(bufferLogger(&logs)))

	r, err := e.Classify(context.Background(), Document{Source: "a.txt", Text: "invoice"})
	require.NoError(t, err)
	assert.Equal(t, "invoice", r.Classification.DocumentType)
	assert.Empty(t, r.RunID)
	assert.Contains(t, logs.String(), "Failed to journal run")
	assert.Contains(t, logs.String(), "disk full")
}

func TestEngine_ClassifyAllJournalFailure(t *testing.T) {
	classifier := &stubClassifier{}
	e := New(classifier, stubValidator{},
		WithJournal(failingJournal{}), WithWorkers(1), WithLogger(bufferLogger(&bytes.Buffer{})))

	docs := []Document{
		{Source: "a", Text: "invoice"},
		{Source: "b", Text: "receipt"},
		{Source: "c", Text: "contract"},
	}

	done := 0
	results, err := e.ClassifyAll(context.Background(), docs, func(Result) { done++ })
	require.NoError(t, err)

	assert.Equal(t, 3, done)
	assert.Equal(t, int32(3), classifier.calls.Load())
	for i, doc := range docs {
		assert.Equal(t, doc.Source, results[i].Source)
		assert.Equal(t, doc.Text, results[i].Classification.DocumentType)
		assert.Empty(t, results[i].RunID)
	}
}

func TestEngine_ClassifyAll(t *testing.T) {
	classifier := &stubClassifier{}
	e := New(classifier, stubValidator{}, WithWorkers(3))

	docs := []Document{
		{Source: "1", Text: "invoice"},
		{Source: "2", Text: "receipt"},
		{Source: "3", Text: ""},
		{Source: "4", Text: "contract"},
	}

	var done []string
	results, err := e.ClassifyAll(context.Background(), docs, func(r Result) {
		done = append(done, r.Source)
	})
	require.NoError(t, err)

	require.Len(t, results, 4)
	for i, doc := range docs {
		assert.Equal(t, doc.Source, results[i].Source)
		assert.Equal(t, doc.Text, results[i].Classification.DocumentType)
	}
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, done)
	assert.Equal(t, int32(4), classifier.calls.Load())
}

func TestEngine_ClassifyAllCanceled(t *testing.T) {
	e := New(&stubClassifier{}, stubValidator{}, WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ClassifyAll(ctx, []Document{{Source: "1", Text: "invoice"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_ClassifyAllEmpty(t *testing.T) {
	e := New(&stubClassifier{}, stubValidator{})

	results, err := e.ClassifyAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Validate(t *testing.T) {
	journal := testutil.SetupJournal(t)
	e := New(&stubClassifier{}, stubValidator{}, WithJournal(journal))
	ctx := context.Background()

	result := e.Validate(ctx, "nf.json", model.Record{"total": 1}, "invoice")
	assert.True(t, result.Valid)

	result = e.Validate(ctx, "nf.json", model.Record{}, "receipt")
	assert.False(t, result.Valid)

	stats, err := journal.Stats(ctx, service.RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Validations)
	assert.Equal(t, 1, stats.InvalidValidations)
}

func TestEngine_ValidateJournalFailure(t *testing.T) {
	var logs bytes.Buffer
	e := New(&stubClassifier{}, stubValidator{}, WithJournal(failingJournal{}), WithLogger(bufferLogger(&logs)))

	result := e.Validate(context.Background(), "nf.json", model.Record{}, "invoice")
	assert.True(t, result.Valid)
	assert.Contains(t, logs.String(), "Failed to journal run")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	patternsDir := filepath.Join(dir, "patterns")
	schemasDir := filepath.Join(dir, "schemas")
	testutil.WriteFiles(t, patternsDir, map[string]string{"invoice.yaml": testutil.InvoicePatterns})
	testutil.WriteFiles(t, schemasDir, map[string]string{"invoice.json": testutil.InvoiceSchema})

	cfg := config.Config{
		PatternsDir:    patternsDir,
		SchemasDir:     schemasDir,
		JournalPath:    filepath.Join(dir, "journal", "docsift.db"),
		JournalEnabled: true,
		ModelThreshold: 0.7,
		RuleThreshold:  0.6,
		RuleTimeout:    time.Second,
		RuleCostLimit:  10000,
	}

	ctx := context.Background()
	e, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, e.Close()) }()

	r, err := e.Classify(ctx, Document{Source: "nf.txt", Text: testutil.InvoiceText})
	require.NoError(t, err)
	assert.Equal(t, model.Classification{DocumentType: "invoice", Confidence: 1, Method: model.MethodRules}, r.Classification)

	result := e.Validate(ctx, "nf.json", model.Record{"issuer": "11.222.333/0001-81", "total": -5.0}, "invoice")
	assert.False(t, result.Valid)
	assert.Equal(t, "number too small (minimum: 0)", result.Errors["total"])
	assert.Equal(t, "total must be positive", result.Errors["positive_total"])

	stats, err := e.Journal().Stats(ctx, service.RunFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Classifications)
	assert.Equal(t, 1, stats.Validations)
}

func TestOpen_MissingDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		PatternsDir:    filepath.Join(dir, "nope"),
		SchemasDir:     filepath.Join(dir, "nope"),
		ModelPath:      filepath.Join(dir, "model.json"),
		ModelThreshold: 0.7,
		RuleThreshold:  0.6,
		RuleTimeout:    time.Second,
		RuleCostLimit:  10000,
	}

	e, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	r, err := e.Classify(context.Background(), Document{Source: "x", Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, model.Unclassified(), r.Classification)
	assert.False(t, e.Journaled())
}
