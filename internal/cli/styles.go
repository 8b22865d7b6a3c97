// Package cli renders docsift results for the terminal using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/docsift/internal/model"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#5C7CFA")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#333")
)

var (
	// TitleStyle is used for box titles.
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames summary panels such as journal stats.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon  = "✓"
	ErrorIcon    = "✗"
	WarningIcon  = "⚠️"
	InfoIcon     = "ℹ️"
	DocumentIcon = "📄"
	RuleIcon     = "📐"
	RobotIcon    = "🤖"
	ChartIcon    = "📊"
)

// Confidence bands used to color classification scores.
const (
	highConfidence = 0.7
	lowConfidence  = 0.4
)

// ConfidenceStyle colors a confidence score by band.
func ConfidenceStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= highConfidence:
		return SuccessStyle
	case confidence >= lowConfidence:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// MethodIcon returns the icon of the signal that produced a classification.
func MethodIcon(m model.Method) string {
	switch m {
	case model.MethodModel:
		return RobotIcon
	case model.MethodRules:
		return RuleIcon
	default:
		return InfoIcon
	}
}

// SeverityLine renders one validation message with its severity icon.
func SeverityLine(severity model.Severity, key, message string) string {
	if severity.IsWarning() {
		return WarningStyle.Render(WarningIcon + " " + key + ": " + message)
	}
	return ErrorStyle.Render(ErrorIcon + " " + key + ": " + message)
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// RenderBox renders content in a titled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
