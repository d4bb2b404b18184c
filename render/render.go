package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"notemind/markdown"
	"notemind/models"
)

// Raw HTML in notes is escaped; pasted text is untrusted.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var labelStripper = strings.NewReplacer("#", "", "*", "")

// TabLabel is the short label of a section tab: the title without any '#' or
// '*' characters, trimmed.
func TabLabel(title string) string {
	return strings.TrimSpace(labelStripper.Replace(title))
}

// HTML renders markdown content with GitHub flavoured extensions.
func HTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// Sections splits text into sections and renders each one for a tabbed view.
func Sections(text string) ([]models.SectionView, error) {
	sections := markdown.Sectionize(text)
	views := make([]models.SectionView, 0, len(sections))
	for _, section := range sections {
		html, err := HTML(section.Content)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", section.Title, err)
		}
		views = append(views, models.SectionView{
			Title:   section.Title,
			Label:   TabLabel(section.Title),
			Level:   section.Level,
			Content: section.Content,
			HTML:    html,
		})
	}
	return views, nil
}
