package markdown

import "strings"

// Preview returns the first n non-blank lines of text, trimmed and joined by
// newlines. It is used for page listings.
func Preview(text string, n int) string {
	if text == "" || n <= 0 {
		return ""
	}

	lines := splitLines(text)
	nonEmptyLines := make([]string, 0, n)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			nonEmptyLines = append(nonEmptyLines, trimmed)
			if len(nonEmptyLines) >= n {
				break
			}
		}
	}

	return strings.Join(nonEmptyLines, "\n")
}
