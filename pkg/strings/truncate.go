package strings

import (
	"strings"
)

// DefaultValueMaxLen is the maximum length for configuration values and
// detail lines in formatted output.
const DefaultValueMaxLen = 60

// MinTruncateLen is the smallest maxLen TruncateValue accepts. Anything
// shorter leaves no room for content plus "...".
const MinTruncateLen = 4

// TruncateValue flattens a string to a single line and truncates it to
// maxLen characters, appending "..." when shortened. It operates on runes
// so multi-byte characters are never cut in half.
func TruncateValue(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	// Collapse newlines and repeated whitespace to single spaces.
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
