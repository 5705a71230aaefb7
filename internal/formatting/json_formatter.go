package formatting

import (
	"encoding/json"
	"fmt"

	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatReport formats a suite report as JSON
func (f *JSONFormatter) FormatReport(report *smoke.Report) string {
	return f.marshal(report)
}

// FormatSettings formats the resolved configuration as JSON
func (f *JSONFormatter) FormatSettings(settings []config.Setting) string {
	type entry struct {
		Key      string `json:"key"`
		Value    string `json:"value,omitempty"`
		Set      bool   `json:"set"`
		Required bool   `json:"required"`
	}
	entries := make([]entry, 0, len(settings))
	for _, s := range settings {
		entries = append(entries, entry{
			Key:      s.Key,
			Value:    s.DisplayValue(),
			Set:      s.Set,
			Required: s.Required,
		})
	}
	return f.marshal(map[string]interface{}{"settings": entries})
}

// FormatRows formats query results as JSON objects keyed by header
func (f *JSONFormatter) FormatRows(headers []string, rows [][]string) string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		entry := map[string]string{}
		for i, cell := range row {
			if i < len(headers) {
				entry[headers[i]] = cell
			}
		}
		out = append(out, entry)
	}
	return f.marshal(map[string]interface{}{"rows": out})
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}

// marshal converts data to a JSON string with appropriate formatting
func (f *JSONFormatter) marshal(data interface{}) string {
	if f.options.Quiet {
		// Compact JSON for quiet mode
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Sprintf(`{"error": "Failed to format JSON: %v"}`, err)
		}
		return string(b)
	}
	return PrettyJSON(data)
}
