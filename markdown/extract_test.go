package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasMarkdownSyntax(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "ATX header", text: "## Title", expected: true},
		{name: "Header on a later line", text: "intro\n# Title", expected: true},
		{name: "Bullet", text: "  - item", expected: true},
		{name: "Star bullet", text: "* item", expected: true},
		{name: "Plus bullet", text: "+ item", expected: true},
		{name: "Table row", text: "| a | b |", expected: true},
		{name: "Header without space", text: "#hashtag", expected: false},
		{name: "Seven hashes", text: "####### nope", expected: false},
		{name: "Divider only", text: "---", expected: false},
		{name: "Plain prose", text: "just some words", expected: false},
		{name: "Empty", text: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasMarkdownSyntax(tt.text))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "Empty input",
			text:     "",
			expected: "",
		},
		{
			name:     "Whitespace only",
			text:     "  \n\t ",
			expected: "",
		},
		{
			name:     "Filler phrase is stripped",
			text:     "Here is your summary: plain text",
			expected: "plain text",
		},
		{
			name:     "Below is filler",
			text:     "  Below is the result:\n\nsome text  ",
			expected: "some text",
		},
		{
			name:     "Filler match is case sensitive",
			text:     "here is lowercase: text",
			expected: "here is lowercase: text",
		},
		{
			name:     "Plain text is trimmed",
			text:     "\n  nothing special  \n",
			expected: "nothing special",
		},
		{
			name:     "Markdown without dividers is returned unchanged",
			text:     "\n# Title\ncontent\n",
			expected: "\n# Title\ncontent\n",
		},
		{
			name:     "Inner divider-delimited part wins",
			text:     "---\n# Title\ncontent\n---",
			expected: "# Title\ncontent",
		},
		{
			name:     "Commentary parts are dropped",
			text:     "Sure, here you go.\n---\n# Notes\n- a\n- b\n---\nLet me know if you need more.",
			expected: "# Notes\n- a\n- b",
		},
		{
			name:     "Several markdown parts are rejoined with a divider",
			text:     "# One\nx\n---\nfiller\n---\n## Two\ny",
			expected: "# One\nx" + PartSeparator + "## Two\ny",
		},
		{
			name:     "Longer hyphen runs split parts",
			text:     "preamble\n-----\n| a | b |\n-----",
			expected: "| a | b |",
		},
		{
			name:     "No part qualifies falls back to whole-input check",
			text:     "Here is a thing: alpha\n---\nbeta",
			expected: "alpha\n---\nbeta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.text))
		})
	}
}

func TestExtract_FeedsSectionize(t *testing.T) {
	raw := "Here are your notes.\n---\n# Cells\nUnits of life.\n---\n# Atoms\nUnits of matter.\n---\nHope this helps!"

	sections := Sectionize(Extract(raw))

	if assert.Len(t, sections, 2) {
		assert.Equal(t, "Cells", sections[0].Title)
		assert.Equal(t, "Units of life.\n", sections[0].Content)
		assert.Equal(t, "Atoms", sections[1].Title)
		assert.Equal(t, "Units of matter.", sections[1].Content)
	}
}

func TestExtract_SeparatorIsAStandaloneDivider(t *testing.T) {
	raw := "x\n---\n- one\n---\ny\n---\n- two"

	sections := Sectionize(Extract(raw))

	if assert.Len(t, sections, 2) {
		assert.Equal(t, IntroductionTitle, sections[0].Title)
		assert.Equal(t, "- one\n", sections[0].Content)
		assert.Equal(t, "Section 1", sections[1].Title)
		assert.Equal(t, "- two", sections[1].Content)
	}
}
