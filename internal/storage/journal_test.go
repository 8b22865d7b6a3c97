package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
)

func TestRecordClassification(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	id, err := store.RecordClassification(ctx, "nf-001.txt", model.Classification{
		DocumentType: "invoice",
		Confidence:   0.86,
		Method:       model.MethodRules,
	})
	if err != nil {
		t.Fatalf("RecordClassification() error = %v", err)
	}
	if id == "" {
		t.Fatal("RecordClassification() returned an empty ID")
	}

	if _, err := store.RecordClassification(ctx, "blank.txt", model.Unclassified()); err != nil {
		t.Fatalf("RecordClassification(unclassified) error = %v", err)
	}

	runs, err := store.ListClassifications(ctx, service.RunFilter{})
	if err != nil {
		t.Fatalf("ListClassifications() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListClassifications() returned %d runs, want 2", len(runs))
	}

	var found bool
	for _, run := range runs {
		if run.ID != id {
			continue
		}
		found = true
		if run.Source != "nf-001.txt" || run.DocumentType != "invoice" ||
			run.Method != model.MethodRules || run.Confidence != 0.86 {
			t.Errorf("unexpected run: %+v", run)
		}
		if run.CreatedAt.IsZero() {
			t.Error("run has no creation time")
		}
	}
	if !found {
		t.Errorf("run %s not listed", id)
	}
}

func TestRecordClassification_Invalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		want   error
		name   string
		source string
		c      model.Classification
	}{
		{name: "empty source", source: "", c: model.Unclassified(), want: ErrEmptyString},
		{name: "unknown method", source: "a", c: model.Classification{Method: "llm"}, want: ErrInvalidMethod},
		{name: "typed without type", source: "a", c: model.Classification{Method: model.MethodModel, Confidence: 0.9}, want: ErrInvalidClassification},
		{name: "none with type", source: "a", c: model.Classification{DocumentType: "invoice", Method: model.MethodNone}, want: ErrInvalidClassification},
		{name: "confidence out of range", source: "a", c: model.Classification{DocumentType: "invoice", Method: model.MethodRules, Confidence: 1.5}, want: ErrInvalidClassification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.RecordClassification(ctx, tt.source, tt.c); !errors.Is(err, tt.want) {
				t.Errorf("RecordClassification() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	row := model.NewValidationResult()
	row.AddError("issuer", "invalid CNPJ")
	row.AddWarning("due_date", "unrecognized date format")
	result := model.NewValidationResult()
	result.Rows = []*model.ValidationResult{model.NewValidationResult(), row}
	result.Valid = false

	id, err := store.RecordValidation(ctx, "batch.csv", "invoice", result)
	if err != nil {
		t.Fatalf("RecordValidation() error = %v", err)
	}

	runs, err := store.ListValidations(ctx, service.RunFilter{Type: "invoice"})
	if err != nil {
		t.Fatalf("ListValidations() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListValidations() returned %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID != id || run.SchemaName != "invoice" || run.Valid {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.ErrorCount != 1 || run.WarningCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", run.ErrorCount, run.WarningCount)
	}
	if len(run.Result.Rows) != 2 || run.Result.Rows[1].Errors["issuer"] != "invalid CNPJ" {
		t.Errorf("result not round-tripped: %+v", run.Result)
	}

	if _, err := store.RecordValidation(ctx, "batch.csv", "invoice", nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("RecordValidation(nil) error = %v, want %v", err, ErrNilParameter)
	}
}

func TestListFilters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, c := range []model.Classification{
		{DocumentType: "invoice", Method: model.MethodRules, Confidence: 0.9},
		{DocumentType: "invoice", Method: model.MethodModel, Confidence: 0.8},
		{DocumentType: "receipt", Method: model.MethodRules, Confidence: 0.7},
	} {
		if _, err := store.RecordClassification(ctx, "doc.txt", c); err != nil {
			t.Fatalf("RecordClassification() error = %v", err)
		}
	}

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name   string
		filter service.RunFilter
		want   int
	}{
		{name: "all", filter: service.RunFilter{}, want: 3},
		{name: "by type", filter: service.RunFilter{Type: "invoice"}, want: 2},
		{name: "limit", filter: service.RunFilter{Limit: 1}, want: 1},
		{name: "since past", filter: service.RunFilter{Since: &past}, want: 3},
		{name: "since future", filter: service.RunFilter{Since: &future}, want: 0},
		{name: "until past", filter: service.RunFilter{Until: &past}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.ListClassifications(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListClassifications() error = %v", err)
			}
			if len(runs) != tt.want {
				t.Errorf("ListClassifications() returned %d runs, want %d", len(runs), tt.want)
			}
		})
	}

	_, err := store.ListClassifications(ctx, service.RunFilter{Since: &future, Until: &past})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range error = %v, want %v", err, ErrInvalidDateRange)
	}
	_, err = store.ListValidations(ctx, service.RunFilter{Limit: -1})
	if !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("negative limit error = %v, want %v", err, ErrInvalidLimit)
	}
}

func TestStats(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, c := range []model.Classification{
		{DocumentType: "invoice", Method: model.MethodRules, Confidence: 0.9},
		{DocumentType: "invoice", Method: model.MethodModel, Confidence: 0.8},
		{DocumentType: "receipt", Method: model.MethodRules, Confidence: 0.7},
		model.Unclassified(),
	} {
		if _, err := store.RecordClassification(ctx, "doc.txt", c); err != nil {
			t.Fatalf("RecordClassification() error = %v", err)
		}
	}

	invalid := model.NewValidationResult()
	invalid.AddError("total", "required field not filled")
	for _, r := range []*model.ValidationResult{model.NewValidationResult(), invalid} {
		if _, err := store.RecordValidation(ctx, "doc.json", "invoice", r); err != nil {
			t.Fatalf("RecordValidation() error = %v", err)
		}
	}

	stats, err := store.Stats(ctx, service.RunFilter{})
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Classifications != 4 {
		t.Errorf("Classifications = %d, want 4", stats.Classifications)
	}
	if stats.ByType["invoice"] != 2 || stats.ByType["receipt"] != 1 || len(stats.ByType) != 2 {
		t.Errorf("ByType = %v", stats.ByType)
	}
	if stats.ByMethod[model.MethodRules] != 2 || stats.ByMethod[model.MethodModel] != 1 || stats.ByMethod[model.MethodNone] != 1 {
		t.Errorf("ByMethod = %v", stats.ByMethod)
	}
	if stats.Validations != 2 || stats.InvalidValidations != 1 {
		t.Errorf("validations = %d/%d, want 2/1", stats.Validations, stats.InvalidValidations)
	}
	if want := (0.9 + 0.8 + 0.7) / 4; math.Abs(stats.AvgConfidence-want) > 1e-9 {
		t.Errorf("AvgConfidence = %v, want %v", stats.AvgConfidence, want)
	}
	if today := time.Now().UTC().Format("2006-01-02"); stats.ByDate[today] != 4 || len(stats.ByDate) != 1 {
		t.Errorf("ByDate = %v, want 4 runs on %s", stats.ByDate, today)
	}

	filtered, err := store.Stats(ctx, service.RunFilter{Type: "invoice"})
	if err != nil {
		t.Fatalf("Stats(invoice) error = %v", err)
	}
	if want := (0.9 + 0.8) / 2; math.Abs(filtered.AvgConfidence-want) > 1e-9 {
		t.Errorf("filtered AvgConfidence = %v, want %v", filtered.AvgConfidence, want)
	}
}

func TestStats_ByDate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 15, 0, 0, time.UTC),
	}
	for i, day := range days {
		_, err := store.db.ExecContext(ctx, `
			INSERT INTO classification_runs (id, source, document_type, confidence, method, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			fmt.Sprintf("run-%d", i), "doc.txt", "invoice", 0.5, string(model.MethodRules), day)
		if err != nil {
			t.Fatalf("insert run %d: %v", i, err)
		}
	}

	stats, err := store.Stats(ctx, service.RunFilter{})
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := map[string]int{"2024-03-01": 2, "2024-03-02": 1}
	if len(stats.ByDate) != len(want) {
		t.Fatalf("ByDate = %v, want %v", stats.ByDate, want)
	}
	for day, n := range want {
		if stats.ByDate[day] != n {
			t.Errorf("ByDate[%s] = %d, want %d", day, stats.ByDate[day], n)
		}
	}

	empty := createTestStorage(t)
	stats, err = empty.Stats(ctx, service.RunFilter{})
	if err != nil {
		t.Fatalf("Stats() on empty journal error = %v", err)
	}
	if stats.AvgConfidence != 0 || len(stats.ByDate) != 0 {
		t.Errorf("empty journal stats = %+v", stats)
	}
}
