package markdown

import (
	"regexp"
	"strings"
)

// PartSeparator rejoins divider-delimited parts kept by Extract. It is a
// standalone divider so Sectionize still splits on it.
const PartSeparator = "\n\n---\n\n"

var (
	atxProbe    = regexp.MustCompile(`^#{1,6}\s`)
	bulletProbe = regexp.MustCompile(`^\s*[-*+]\s`)
	tableProbe  = regexp.MustCompile(`\|.*\|`)

	fillerPrefix = regexp.MustCompile(`^\s*(?:Here is|Below is).*?:\s*`)
)

// HasMarkdownSyntax reports whether any line of text looks like markdown:
// an ATX header, a bullet item or a pipe-delimited table row.
func HasMarkdownSyntax(text string) bool {
	for _, line := range splitLines(text) {
		if atxProbe.MatchString(line) || bulletProbe.MatchString(line) || tableProbe.MatchString(line) {
			return true
		}
	}
	return false
}

// isExtractDivider matches a line made only of three or more hyphens.
// It is deliberately looser than isStandaloneDivider in sections.go.
func isExtractDivider(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 3 && strings.Trim(trimmed, "-") == ""
}

// Extract picks the markdown out of pasted text. Divider-delimited parts that
// carry markdown syntax win; otherwise text with markdown syntax is returned
// as is; otherwise a leading "Here is ...:" style phrase is stripped and the
// remainder trimmed. Extract never fails.
func Extract(text string) string {
	if parts, ok := markdownParts(text); ok {
		return strings.Join(parts, PartSeparator)
	}

	if HasMarkdownSyntax(text) {
		return text
	}

	return strings.TrimSpace(fillerPrefix.ReplaceAllString(text, ""))
}

// markdownParts splits text on divider lines and keeps the non-empty parts
// that carry markdown syntax. ok is false when there is no divider or no part
// survives.
func markdownParts(text string) (parts []string, ok bool) {
	lines := splitLines(text)

	var (
		current    []string
		hasDivider bool
	)
	flush := func() {
		part := strings.TrimSpace(strings.Join(current, "\n"))
		current = current[:0]
		if part != "" && HasMarkdownSyntax(part) {
			parts = append(parts, part)
		}
	}

	for _, line := range lines {
		if isExtractDivider(line) {
			hasDivider = true
			flush()
			continue
		}
		current = append(current, line)
	}
	if !hasDivider {
		return nil, false
	}
	flush()

	return parts, len(parts) > 0
}

// splitLines splits on "\n" after folding "\r\n" line endings.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
