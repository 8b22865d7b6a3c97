package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
)

func TestRenderClassification(t *testing.T) {
	out := RenderClassification("nf.txt", model.Classification{
		DocumentType: "invoice",
		Confidence:   0.857,
		Method:       model.MethodRules,
	})
	assert.Contains(t, out, "nf.txt")
	assert.Contains(t, out, "invoice")
	assert.Contains(t, out, "86%")
	assert.Contains(t, out, "via rules")

	assert.Contains(t, RenderClassification("blank.txt", model.Unclassified()), "blank.txt: unclassified")
}

func TestMethodIcon(t *testing.T) {
	assert.Equal(t, RuleIcon, MethodIcon(model.MethodRules))
	assert.Equal(t, RobotIcon, MethodIcon(model.MethodModel))
	assert.Equal(t, InfoIcon, MethodIcon(model.MethodNone))
}

func TestConfidenceStyle(t *testing.T) {
	assert.Equal(t, SuccessStyle.GetForeground(), ConfidenceStyle(0.7).GetForeground())
	assert.Equal(t, WarningStyle.GetForeground(), ConfidenceStyle(0.4).GetForeground())
	assert.Equal(t, ErrorStyle.GetForeground(), ConfidenceStyle(0.39).GetForeground())
}

func TestSeverityLine(t *testing.T) {
	assert.Contains(t, SeverityLine(model.SeverityError, "cpf", "invalid CPF"), ErrorIcon+" cpf: invalid CPF")
	assert.Contains(t, SeverityLine(model.SeverityWarning, "due", "invalid date"), WarningIcon+" due: invalid date")
	assert.Contains(t, SeverityLine("", "total", "x"), ErrorIcon)
}

func TestRenderScores(t *testing.T) {
	out := RenderScores([]model.TypeScore{
		{DocumentType: "invoice", Matched: 6, Max: 7, Score: 6.0 / 7},
		{DocumentType: "receipt", Matched: 0, Max: 3},
	})
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "6/7")
	assert.Contains(t, out, "0.86")
	assert.Contains(t, out, "receipt")
}

func TestRenderValidation(t *testing.T) {
	valid := model.NewValidationResult()
	assert.Contains(t, RenderValidation("ok.json", valid), "ok.json: valid")

	row := model.NewValidationResult()
	row.AddError("issuer", "invalid CNPJ")
	row.AddWarning("due_date", "unrecognized date format")
	batch := model.NewValidationResult()
	batch.Rows = []*model.ValidationResult{model.NewValidationResult(), row}
	batch.Valid = false

	out := RenderValidation("batch.csv", batch)
	assert.Contains(t, out, "batch.csv: invalid (1 errors)")
	assert.Contains(t, out, "row 2")
	assert.NotContains(t, out, "row 1")
	assert.Contains(t, out, "issuer: invalid CNPJ")
	assert.Contains(t, out, "due_date: unrecognized date format")
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(&service.Stats{
		ByType:             map[string]int{"invoice": 2},
		ByMethod:           map[model.Method]int{model.MethodRules: 1, model.MethodModel: 1},
		ByDate:             map[string]int{"2024-03-01": 2},
		AvgConfidence:      0.85,
		Classifications:    2,
		Validations:        3,
		InvalidValidations: 1,
	})
	assert.Contains(t, out, "Classifications: 2")
	assert.Contains(t, out, "3 (1 invalid)")
	assert.Contains(t, out, "invoice")
	assert.Contains(t, out, "model")
	assert.Contains(t, out, "85%")
	assert.Contains(t, out, "2024-03-01")
}

func TestRenderRuns(t *testing.T) {
	now := time.Now()

	out := RenderClassificationRuns([]service.ClassificationRun{
		{CreatedAt: now, Source: "a.txt", DocumentType: "invoice", Method: model.MethodRules, Confidence: 0.9},
		{CreatedAt: now, Source: "b.txt", Method: model.MethodNone},
	})
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "0.90")
	assert.Contains(t, out, "none")

	out = RenderValidationRuns([]service.ValidationRun{
		{CreatedAt: now, Source: "c.json", SchemaName: "invoice", ErrorCount: 2, WarningCount: 1},
	})
	assert.Contains(t, out, "c.json")
	assert.Contains(t, out, ErrorIcon)
	assert.Contains(t, out, "2/1")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer

	assert.Nil(t, NewProgress(&buf, 1, "Classifying"))

	var none *Progress
	none.Step()
	none.Finish()

	p := NewProgress(&buf, 3, "Classifying")
	for range 3 {
		p.Step()
	}
	p.Finish()
	assert.Contains(t, buf.String(), "3/3")
}
