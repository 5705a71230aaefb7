package strings

import (
	"testing"
)

func TestTruncateValue(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "databricks",
			maxLen: 60,
			want:   "databricks",
		},
		{
			name:   "long string truncated with ellipsis",
			input:  "dbfs:/databricks/mlflow-tracking/1234567890/run-abcdef/artifacts/model",
			maxLen: 20,
			want:   "dbfs:/databricks/...",
		},
		{
			name:   "newlines collapsed",
			input:  "line one\nline two",
			maxLen: 60,
			want:   "line one line two",
		},
		{
			name:   "repeated whitespace collapsed",
			input:  "a    b\t\tc",
			maxLen: 60,
			want:   "a b c",
		},
		{
			name:   "maxLen clamped to minimum",
			input:  "abcdefgh",
			maxLen: 1,
			want:   "a...",
		},
		{
			name:   "multi byte runes respected",
			input:  "héllo wörld, this is longer than the limit",
			maxLen: 10,
			want:   "héllo w...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateValue(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateValue(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
