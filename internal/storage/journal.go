package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
)

// RecordClassification journals a classification outcome and returns its run ID.
func (s *SQLiteStorage) RecordClassification(ctx context.Context, source string, c model.Classification) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(source, "source"); err != nil {
		return "", err
	}
	if err := validateClassification(c); err != nil {
		return "", err
	}

	id := uuid.NewString()
	err := s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO classification_runs (
				id, source, document_type, confidence, method, created_at
			) VALUES (?, ?, ?, ?, ?, ?)
		`,
			id,
			source,
			nullString(c.DocumentType),
			c.Confidence,
			string(c.Method),
			time.Now().UTC(),
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to record classification: %w", err)
	}
	return id, nil
}

// RecordValidation journals a validation result and returns its run ID.
func (s *SQLiteStorage) RecordValidation(ctx context.Context, source, schemaName string, result *model.ValidationResult) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(source, "source"); err != nil {
		return "", err
	}
	if err := validateString(schemaName, "schemaName"); err != nil {
		return "", err
	}
	if err := validateResult(result); err != nil {
		return "", err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal validation result: %w", err)
	}

	id := uuid.NewString()
	err = s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO validation_runs (
				id, source, schema_name, valid, error_count,
				warning_count, result_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			source,
			schemaName,
			result.Valid,
			result.ErrorCount(),
			result.WarningCount(),
			string(resultJSON),
			time.Now().UTC(),
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to record validation: %w", err)
	}
	return id, nil
}

// ListClassifications returns journaled classifications, newest first.
func (s *SQLiteStorage) ListClassifications(ctx context.Context, filter service.RunFilter) ([]service.ClassificationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	where, args := filterClause(filter, "document_type")
	query := `
		SELECT id, source, COALESCE(document_type, ''), confidence, method, created_at
		FROM classification_runs` + where + `
		ORDER BY created_at DESC, id` + limitClause(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classification runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []service.ClassificationRun
	for rows.Next() {
		var run service.ClassificationRun
		var method string
		if err := rows.Scan(&run.ID, &run.Source, &run.DocumentType, &run.Confidence, &method, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification run: %w", err)
		}
		run.Method = model.Method(method)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListValidations returns journaled validations, newest first.
func (s *SQLiteStorage) ListValidations(ctx context.Context, filter service.RunFilter) ([]service.ValidationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	where, args := filterClause(filter, "schema_name")
	query := `
		SELECT id, source, schema_name, valid, error_count, warning_count, result_json, created_at
		FROM validation_runs` + where + `
		ORDER BY created_at DESC, id` + limitClause(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []service.ValidationRun
	for rows.Next() {
		var run service.ValidationRun
		var resultJSON string
		if err := rows.Scan(&run.ID, &run.Source, &run.SchemaName, &run.Valid,
			&run.ErrorCount, &run.WarningCount, &resultJSON, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan validation run: %w", err)
		}

		run.Result = &model.ValidationResult{}
		if err := json.Unmarshal([]byte(resultJSON), run.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation result %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats aggregates the journal over the filter's time window.
func (s *SQLiteStorage) Stats(ctx context.Context, filter service.RunFilter) (*service.Stats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	stats := &service.Stats{
		ByType:   make(map[string]int),
		ByMethod: make(map[model.Method]int),
		ByDate:   make(map[string]int),
	}

	where, args := filterClause(filter, "document_type")
	err := s.scanGroups(ctx, `
		SELECT COALESCE(document_type, ''), method, COUNT(*)
		FROM classification_runs`+where+`
		GROUP BY document_type, method
	`, args, func(rows *sql.Rows) error {
		var docType, method string
		var count int
		if err := rows.Scan(&docType, &method, &count); err != nil {
			return err
		}
		if docType != "" {
			stats.ByType[docType] += count
		}
		stats.ByMethod[model.Method(method)] += count
		stats.Classifications += count
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate classification runs: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(confidence), 0)
		FROM classification_runs`+where, args...).Scan(&stats.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to average confidence: %w", err)
	}

	err = s.scanGroups(ctx, `
		SELECT date(created_at) AS day, COUNT(*)
		FROM classification_runs`+where+`
		GROUP BY day
	`, args, func(rows *sql.Rows) error {
		var day sql.NullString
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return err
		}
		if day.Valid {
			stats.ByDate[day.String] += count
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count classification runs by date: %w", err)
	}

	where, args = filterClause(filter, "schema_name")
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN valid THEN 0 ELSE 1 END), 0)
		FROM validation_runs`+where, args...).Scan(&stats.Validations, &stats.InvalidValidations)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate validation runs: %w", err)
	}

	return stats, nil
}

func (s *SQLiteStorage) scanGroups(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// filterClause builds the WHERE clause for a run filter. typeColumn is the
// column the filter's Type matches.
func filterClause(filter service.RunFilter, typeColumn string) (string, []any) {
	var conditions []string
	var args []any

	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.Until.UTC())
	}
	if filter.Type != "" {
		conditions = append(conditions, typeColumn+" = ?")
		args = append(args, filter.Type)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func limitClause(filter service.RunFilter) string {
	if filter.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", filter.Limit)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
