// Package formatting provides unified output formatting for the CLI.
//
// All commands render through a Formatter so that reports, configuration
// listings and query results look the same regardless of which check
// produced them, with support for multiple output formats (console, JSON,
// YAML, table).
package formatting

import (
	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(s) {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return OutputFormat(s), true
	}
	return "", false
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
}

// Formatter renders check results and related data in one output format
type Formatter interface {
	// FormatReport renders the outcome of a suite run.
	FormatReport(report *smoke.Report) string

	// FormatSettings renders the resolved configuration for the doctor
	// command. Secret values arrive pre-masked.
	FormatSettings(settings []config.Setting) string

	// FormatRows renders tabular query results (cluster query output).
	FormatRows(headers []string, rows [][]string) string

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatConsole:
		fallthrough
	default:
		return NewConsoleFormatter(options)
	}
}
