// Package engine wires classification, validation and the run journal behind
// the single entry point used by the CLI.
package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
	"github.com/Veraticus/docsift/internal/validation"
)

// Document is a text to classify, named by where it came from.
type Document struct {
	Source string
	Text   string
}

// Result is the outcome of classifying one document.
type Result struct {
	Source         string
	RunID          string
	Classification model.Classification
}

// Engine runs classifications and validations, journaling them when a
// journal is configured.
type Engine struct {
	classifier Classifier
	validator  Validator
	journal    service.Journal
	logger     *slog.Logger
	closers    []func() error
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records every run in j.
func WithJournal(j service.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithWorkers bounds the number of documents classified concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an engine over the given classifier and validator.
func New(classifier Classifier, validator Validator, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		validator:  validator,
		logger:     slog.Default(),
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// Journaled reports whether runs are being recorded.
func (e *Engine) Journaled() bool {
	return e.journal != nil
}

// Journal returns the run journal, or nil.
func (e *Engine) Journal() service.Journal {
	return e.journal
}

// Classify classifies one document and journals the outcome.
func (e *Engine) Classify(ctx context.Context, doc Document) (Result, error) {
	result := Result{
		Source:         doc.Source,
		Classification: e.classifier.Classify(ctx, doc.Text),
	}

	e.logger.Debug("Classified document",
		"source", doc.Source,
		"document_type", result.Classification.DocumentType,
		"confidence", result.Classification.Confidence,
		"method", result.Classification.Method)

	if e.journal == nil {
		return result, nil
	}

	id, err := e.journal.RecordClassification(ctx, doc.Source, result.Classification)
	if err != nil {
		e.logger.Warn("Failed to journal run", "source", doc.Source, "kind", "classification", "error", err)
		return result, nil
	}
	result.RunID = id
	return result, nil
}

// ClassifyAll classifies docs concurrently. Results keep the order of docs.
// onDone, when set, is called once per finished document, never concurrently.
// Cancellation of ctx stops the remaining work.
func (e *Engine) ClassifyAll(ctx context.Context, docs []Document, onDone func(Result)) ([]Result, error) {
	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.workers, max(len(docs), 1)))

	var mu sync.Mutex
	for i := range docs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			r, err := e.Classify(gctx, docs[i])
			results[i] = r
			if err != nil {
				return err
			}

			if onDone != nil {
				mu.Lock()
				onDone(r)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Explain returns the rule score of every document type for text.
func (e *Engine) Explain(text string) []model.TypeScore {
	return e.classifier.Explain(text)
}

// Validate validates data against the named schema and journals the result.
// Validation failures are reported in the result; journal failures are logged.
func (e *Engine) Validate(ctx context.Context, source string, data any, schemaName string) *model.ValidationResult {
	result := e.validator.Validate(ctx, data, validation.ByName(schemaName))

	e.logger.Debug("Validated document",
		"source", source,
		"schema", schemaName,
		"valid", result.Valid,
		"errors", result.ErrorCount(),
		"warnings", result.WarningCount())

	if e.journal == nil {
		return result
	}

	if _, err := e.journal.RecordValidation(ctx, source, schemaName, result); err != nil {
		e.logger.Warn("Failed to journal run", "source", source, "kind", "validation", "error", err)
	}
	return result
}

// Close releases resources opened by Open.
func (e *Engine) Close() error {
	var firstErr error
	for _, closeFn := range e.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.closers = nil
	return firstErr
}
