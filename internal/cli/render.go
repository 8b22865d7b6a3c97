package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/docsift/internal/model"
	"github.com/Veraticus/docsift/internal/service"
)

// RenderClassification formats one classification outcome.
func RenderClassification(source string, c model.Classification) string {
	if !c.Classified() {
		return FormatWarning(fmt.Sprintf("%s: unclassified", source))
	}

	return fmt.Sprintf("%s %s %s %s %s",
		SuccessStyle.Render(SuccessIcon),
		BoldStyle.Render(source),
		InfoStyle.Render(c.DocumentType),
		ConfidenceStyle(c.Confidence).Render(fmt.Sprintf("%.0f%%", c.Confidence*100)),
		SubtleStyle.Render(fmt.Sprintf("via %s %s", c.Method, MethodIcon(c.Method))),
	)
}

// RenderScores formats per-type rule scores as a table.
func RenderScores(scores []model.TypeScore) string {
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{
			s.DocumentType,
			fmt.Sprintf("%d/%d", s.Matched, s.Max),
			fmt.Sprintf("%.2f", s.Score),
		}
	}
	return renderTable([]string{"TYPE", "MATCHED", "SCORE"}, rows)
}

// RenderValidation formats a validation result, including per-row results.
func RenderValidation(source string, result *model.ValidationResult) string {
	var b strings.Builder

	if result.Valid {
		b.WriteString(FormatSuccess(source + ": valid"))
	} else {
		b.WriteString(FormatError(fmt.Sprintf("%s: invalid (%d errors)", source, result.ErrorCount())))
	}
	writeMessages(&b, "  ", result)

	for i, row := range result.Rows {
		if len(row.Errors) == 0 && len(row.Warnings) == 0 {
			continue
		}
		b.WriteString("\n  " + BoldStyle.Render(fmt.Sprintf("row %d", i+1)))
		writeMessages(&b, "    ", row)
	}
	return b.String()
}

func writeMessages(b *strings.Builder, indent string, result *model.ValidationResult) {
	for _, key := range sortedKeys(result.Errors) {
		b.WriteString("\n" + indent + SeverityLine(model.SeverityError, key, result.Errors[key]))
	}
	for _, key := range sortedKeys(result.Warnings) {
		b.WriteString("\n" + indent + SeverityLine(model.SeverityWarning, key, result.Warnings[key]))
	}
}

// RenderStats formats journal statistics.
func RenderStats(stats *service.Stats) string {
	lines := []string{
		fmt.Sprintf("Classifications: %d", stats.Classifications),
		fmt.Sprintf("Avg confidence:  %s",
			ConfidenceStyle(stats.AvgConfidence).Render(fmt.Sprintf("%.0f%%", stats.AvgConfidence*100))),
		fmt.Sprintf("Validations:     %d (%d invalid)", stats.Validations, stats.InvalidValidations),
	}

	methods := make([]string, 0, len(stats.ByMethod))
	for m := range stats.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)

	rows := make([][]string, 0, len(stats.ByType)+len(methods)+len(stats.ByDate))
	for _, docType := range sortedKeys(stats.ByType) {
		rows = append(rows, []string{"type", docType, fmt.Sprint(stats.ByType[docType])})
	}
	for _, m := range methods {
		rows = append(rows, []string{"method", m, fmt.Sprint(stats.ByMethod[model.Method(m)])})
	}
	for _, day := range sortedKeys(stats.ByDate) {
		rows = append(rows, []string{"date", day, fmt.Sprint(stats.ByDate[day])})
	}

	content := strings.Join(lines, "\n")
	if len(rows) > 0 {
		content += "\n\n" + renderTable([]string{"BY", "VALUE", "RUNS"}, rows)
	}
	return RenderBox(ChartIcon+" Journal", content)
}

// RenderClassificationRuns formats journaled classifications.
func RenderClassificationRuns(runs []service.ClassificationRun) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		docType := r.DocumentType
		if docType == "" {
			docType = "-"
		}
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			docType,
			string(r.Method),
			fmt.Sprintf("%.2f", r.Confidence),
		}
	}
	return renderTable([]string{"WHEN", "SOURCE", "TYPE", "METHOD", "CONFIDENCE"}, rows)
}

// RenderValidationRuns formats journaled validations.
func RenderValidationRuns(runs []service.ValidationRun) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		status := SuccessIcon
		if !r.Valid {
			status = ErrorIcon
		}
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			r.SchemaName,
			status,
			fmt.Sprintf("%d/%d", r.ErrorCount, r.WarningCount),
		}
	}
	return renderTable([]string{"WHEN", "SOURCE", "SCHEMA", "VALID", "ERRORS/WARNINGS"}, rows)
}

// renderTable lays out rows under headers with lipgloss column widths.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = cellStyle.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := []string{renderRow(headers, BoldStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
