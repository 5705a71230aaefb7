package formatting

import (
	"fmt"
	"strings"
	"time"

	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatReport renders the suite outcome as a table, one row per check
func (f *TableFormatter) FormatReport(report *smoke.Report) string {
	t := f.newWriter()
	t.AppendHeader(table.Row{"Check", "Status", "Duration", "Steps", "Diagnostics"})
	for _, result := range report.Results {
		passed := 0
		for _, s := range result.Steps {
			if s.Status == smoke.StatusPassed {
				passed++
			}
		}
		t.AppendRow(table.Row{
			result.Name,
			f.statusCell(result.Status),
			result.Duration.Round(time.Millisecond).String(),
			formatStepCount(passed, len(result.Steps)),
			strings.Join(result.Diagnostics, "; "),
		})
	}
	t.AppendFooter(table.Row{"", "", report.Duration.Round(time.Millisecond).String(),
		formatTally(report), ""})
	return t.Render() + "\n"
}

// FormatSettings renders the resolved configuration as a table
func (f *TableFormatter) FormatSettings(settings []config.Setting) string {
	t := f.newWriter()
	t.AppendHeader(table.Row{"Key", "Value", "Required"})
	for _, s := range settings {
		value := s.DisplayValue()
		if !s.Set {
			value = "(not set)"
		}
		required := ""
		if s.Required {
			required = "yes"
		}
		t.AppendRow(table.Row{s.Key, value, required})
	}
	return t.Render() + "\n"
}

// FormatRows renders query results as a table
func (f *TableFormatter) FormatRows(headers []string, rows [][]string) string {
	t := f.newWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		t.AppendRow(cells)
	}
	return t.Render() + "\n"
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

func (f *TableFormatter) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	// Keep the tally footer lowercase, matching the other formatters.
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func (f *TableFormatter) statusCell(status smoke.Status) string {
	s := string(status)
	if !f.options.Color {
		return s
	}
	switch status {
	case smoke.StatusPassed:
		return text.FgGreen.Sprint(s)
	case smoke.StatusSkipped:
		return text.FgYellow.Sprint(s)
	default:
		return text.FgRed.Sprint(s)
	}
}

func formatStepCount(passed, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", passed, total)
}

func formatTally(report *smoke.Report) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped",
		report.Passed, report.Failed, report.Skipped)
}
