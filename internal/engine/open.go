package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/docsift/internal/classification"
	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/config"
	"github.com/Veraticus/docsift/internal/inference"
	"github.com/Veraticus/docsift/internal/pattern"
	"github.com/Veraticus/docsift/internal/schema"
	"github.com/Veraticus/docsift/internal/storage"
	"github.com/Veraticus/docsift/internal/validation"
)

// Open builds an engine from configuration: it loads patterns, schemas and
// the optional model, and opens the journal when enabled. Sources that fail
// to load are logged and skipped.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	obs := common.NewLogObserver(logger)

	patterns, err := pattern.Load(cfg.PatternsDir, obs)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}

	schemas, err := schema.Load(cfg.SchemasDir, obs)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}

	mdl := inference.Open(cfg.ModelPath, obs)

	classifier := classification.New(patterns,
		classification.WithModel(mdl),
		classification.WithPolicy(classification.Policy{
			ModelThreshold: cfg.ModelThreshold,
			RuleThreshold:  cfg.RuleThreshold,
		}),
		classification.WithObserver(obs),
	)

	rules, err := validation.NewRuleEvaluator(cfg.RuleTimeout, cfg.RuleCostLimit)
	if err != nil {
		return nil, err
	}
	validator, err := validation.New(schemas,
		validation.WithRuleEvaluator(rules),
		validation.WithObserver(obs),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("Engine loaded",
		"patterns", patterns.Len(),
		"schemas", schemas.Len(),
		"model", classifier.HasModel())

	opts := []Option{WithLogger(logger)}
	var journal *storage.SQLiteStorage
	if cfg.JournalEnabled {
		journal, err = OpenJournal(ctx, cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithJournal(journal))
	}

	e := New(classifier, validator, opts...)
	if journal != nil {
		e.closers = append(e.closers, journal.Close)
	}
	return e, nil
}

// OpenJournal opens and migrates the SQLite journal at path.
func OpenJournal(ctx context.Context, path string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}
