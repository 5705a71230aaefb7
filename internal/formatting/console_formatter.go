package formatting

import (
	"fmt"
	"strings"
	"time"

	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"

	"github.com/fatih/color"
)

// ConsoleFormatter provides plain console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatReport renders the summary block printed after a suite run
func (f *ConsoleFormatter) FormatReport(report *smoke.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\nSummary\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	for _, result := range report.Results {
		b.WriteString(fmt.Sprintf("  %s %-10s %s (%s)\n",
			f.statusGlyph(result.Status),
			result.Name,
			result.Status,
			result.Duration.Round(time.Millisecond)))
		for _, diag := range result.Diagnostics {
			b.WriteString(fmt.Sprintf("      %s\n", diag))
		}
	}

	b.WriteString(fmt.Sprintf("\n%d passed, %d failed, %d skipped (%s)\n",
		report.Passed, report.Failed, report.Skipped,
		report.Duration.Round(time.Millisecond)))

	if report.OK() {
		b.WriteString(f.colorize(color.FgGreen, "All checks passed") + "\n")
	} else {
		b.WriteString(f.colorize(color.FgRed, "Some checks failed") + "\n")
	}

	return b.String()
}

// FormatSettings renders one line per configuration key
func (f *ConsoleFormatter) FormatSettings(settings []config.Setting) string {
	var b strings.Builder
	for _, s := range settings {
		glyph := f.colorize(color.FgGreen, "✓")
		value := s.DisplayValue()
		if !s.Set {
			value = "(not set)"
			if s.Required {
				glyph = f.colorize(color.FgRed, "✗")
			} else {
				glyph = f.colorize(color.FgYellow, "○")
			}
		}
		b.WriteString(fmt.Sprintf("  %s %-28s %s\n", glyph, s.Key, value))
	}
	return b.String()
}

// FormatRows renders query results with simple column padding
func (f *ConsoleFormatter) FormatRows(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i < len(widths) {
				b.WriteString(fmt.Sprintf("  %-*s", widths[i], cell))
			}
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}

func (f *ConsoleFormatter) statusGlyph(status smoke.Status) string {
	switch status {
	case smoke.StatusPassed:
		return f.colorize(color.FgGreen, "✓")
	case smoke.StatusSkipped:
		return f.colorize(color.FgYellow, "○")
	default:
		return f.colorize(color.FgRed, "✗")
	}
}

func (f *ConsoleFormatter) colorize(attr color.Attribute, s string) string {
	if !f.options.Color {
		return s
	}
	return color.New(attr).Sprint(s)
}
