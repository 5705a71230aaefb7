package formatting

import (
	"fmt"

	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatReport formats a suite report as YAML
func (f *YAMLFormatter) FormatReport(report *smoke.Report) string {
	return f.marshal(report)
}

// FormatSettings formats the resolved configuration as YAML
func (f *YAMLFormatter) FormatSettings(settings []config.Setting) string {
	type entry struct {
		Key      string `yaml:"key"`
		Value    string `yaml:"value,omitempty"`
		Set      bool   `yaml:"set"`
		Required bool   `yaml:"required"`
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

// FormatRows formats query results as YAML objects keyed by header
func (f *YAMLFormatter) FormatRows(headers []string, rows [][]string) string {
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
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}

// marshal converts data to a YAML string
func (f *YAMLFormatter) marshal(data interface{}) string {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Sprintf("error: \"Failed to format YAML: %v\"\n", err)
	}
	return string(b)
}
