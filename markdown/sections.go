package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// IntroductionTitle labels content that appears before any section.
	IntroductionTitle = "Introduction"

	divider = "---"
)

var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Section is a titled, leveled span of markdown lines.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Level   int    `json:"level"`
}

type sectionState int

const (
	noSection sectionState = iota
	openSection
)

type sectionEvent int

const (
	contentSeen sectionEvent = iota
	headerSeen
	dividerSeen
)

// sectionizer holds the state of a single Sectionize pass.
type sectionizer struct {
	state       sectionState
	current     Section
	sections    []Section
	synthesized int
}

// Sectionize splits markdown into an ordered list of sections.
//
// ATX headers (# .. ######) open a new section. A line that is exactly "---",
// framed by blank lines or the document boundary, closes the open section and
// is dropped. Content outside any section opens a synthesized one titled
// "Introduction" (nothing emitted yet) or "Section N". Blank input yields an
// empty list. Sectionize never fails.
func Sectionize(markdown string) []Section {
	lines := splitLines(markdown)
	s := &sectionizer{sections: []Section{}}

	for i, line := range lines {
		if isStandaloneDivider(lines, i) {
			s.transition(dividerSeen, line, 0, "")
			continue
		}
		if level, title, ok := parseHeader(line); ok {
			s.transition(headerSeen, line, level, title)
			continue
		}
		s.transition(contentSeen, line, 0, "")
	}
	s.emit()

	return s.sections
}

func (s *sectionizer) transition(ev sectionEvent, line string, level int, title string) {
	switch ev {
	case dividerSeen:
		s.emit()

	case headerSeen:
		s.emit()
		s.open(Section{Title: title, Level: level})

	case contentSeen:
		if s.state == openSection {
			if s.current.Content != "" {
				s.current.Content += "\n"
			}
			s.current.Content += line
			return
		}
		if isBlank(line) {
			return
		}
		title := IntroductionTitle
		if len(s.sections) > 0 {
			s.synthesized++
			title = fmt.Sprintf("Section %d", s.synthesized)
		}
		s.open(Section{Title: title, Content: line, Level: 1})
	}
}

func (s *sectionizer) open(section Section) {
	s.current = section
	s.state = openSection
}

func (s *sectionizer) emit() {
	if s.state != openSection {
		return
	}
	s.sections = append(s.sections, s.current)
	s.current = Section{}
	s.state = noSection
}

// parseHeader returns the level and trimmed title of an ATX header line.
// A header whose text is only whitespace is not a header.
func parseHeader(line string) (level int, title string, ok bool) {
	m := headerRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	title = strings.TrimSpace(m[2])
	if title == "" {
		return 0, "", false
	}
	return len(m[1]), title, true
}

// isStandaloneDivider reports whether lines[i] is exactly "---" with a blank
// line or the document boundary on both sides.
func isStandaloneDivider(lines []string, i int) bool {
	if strings.TrimSpace(lines[i]) != divider {
		return false
	}
	if i > 0 && !isBlank(lines[i-1]) {
		return false
	}
	if i < len(lines)-1 && !isBlank(lines[i+1]) {
		return false
	}
	return true
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ToMarkdown serializes sections back to header-prefixed markdown. Feeding the
// result to Sectionize yields the same titles, levels and contents.
func ToMarkdown(sections []Section) string {
	var sb strings.Builder
	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		level := min(max(section.Level, 1), 6)
		sb.WriteString(strings.Repeat("#", level))
		sb.WriteString(" ")
		sb.WriteString(section.Title)
		if section.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(section.Content)
		}
	}
	return sb.String()
}
