package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionize(t *testing.T) {
	tests := []struct {
		name             string
		markdown         string
		expectedSections int
		validateSections func(*testing.T, []Section)
	}{
		{
			name:             "Empty markdown",
			markdown:         "",
			expectedSections: 0,
			validateSections: func(t *testing.T, sections []Section) {
				assert.NotNil(t, sections)
			},
		},
		{
			name:             "Only blank lines",
			markdown:         "\n   \n\t\n",
			expectedSections: 0,
			validateSections: func(t *testing.T, sections []Section) {},
		},
		{
			name:             "Two headers",
			markdown:         "# A\nfoo\n# B\nbar",
			expectedSections: 2,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, Section{Title: "A", Content: "foo", Level: 1}, sections[0])
				assert.Equal(t, Section{Title: "B", Content: "bar", Level: 1}, sections[1])
			},
		},
		{
			name:             "Plain text becomes a single introduction",
			markdown:         "first line\n\nsecond line\nthird line",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, 1, sections[0].Level)
				assert.Equal(t, "first line\n\nsecond line\nthird line", sections[0].Content)
			},
		},
		{
			name:             "Leading blank lines are dropped",
			markdown:         "\n\nhello",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, "hello", sections[0].Content)
			},
		},
		{
			name:             "Divider between paragraphs",
			markdown:         "alpha\n\n---\n\nbeta",
			expectedSections: 2,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "Section 1", sections[1].Title)
				for _, section := range sections {
					assert.NotContains(t, section.Content, "---")
				}
				assert.Equal(t, "alpha", strings.TrimSpace(sections[0].Content))
				assert.Equal(t, "beta", sections[1].Content)
			},
		},
		{
			name:             "Divider not framed by blank lines is content",
			markdown:         "alpha\n---\nbeta",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, "alpha\n---\nbeta", sections[0].Content)
			},
		},
		{
			name:             "Longer hyphen runs are not section dividers",
			markdown:         "alpha\n\n-----\n\nbeta",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Contains(t, sections[0].Content, "-----")
			},
		},
		{
			name:             "Dividers at document boundaries",
			markdown:         "---\n\nalpha\n\n---",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "alpha\n", sections[0].Content)
			},
		},
		{
			name:             "Synthesized titles are numbered after each divider",
			markdown:         "one\n\n---\n\ntwo\n\n---\n\nthree",
			expectedSections: 3,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "Section 1", sections[1].Title)
				assert.Equal(t, "Section 2", sections[2].Title)
			},
		},
		{
			name:             "Content after a header section closed by a divider",
			markdown:         "# Notes\nbody\n\n---\n\ntrailing",
			expectedSections: 2,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, "Notes", sections[0].Title)
				assert.Equal(t, "Section 1", sections[1].Title)
				assert.Equal(t, "trailing", sections[1].Content)
			},
		},
		{
			name:             "Mixed headers and dividers",
			markdown:         "intro\n\n---\n\n## Part\ntext\n\n---\n\n### Deep\nmore",
			expectedSections: 3,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "Part", sections[1].Title)
				assert.Equal(t, 2, sections[1].Level)
				assert.Equal(t, "Deep", sections[2].Title)
				assert.Equal(t, 3, sections[2].Level)
				assert.Equal(t, "more", sections[2].Content)
			},
		},
		{
			name:             "Header levels and trimmed titles",
			markdown:         "######   Six  \nx\n####### Seven",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, "Six", sections[0].Title)
				assert.Equal(t, 6, sections[0].Level)
				assert.Equal(t, "x\n####### Seven", sections[0].Content)
			},
		},
		{
			name:             "Header without space is plain text",
			markdown:         "#NoSpace\n# Real",
			expectedSections: 2,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "#NoSpace", sections[0].Content)
				assert.Equal(t, "Real", sections[1].Title)
			},
		},
		{
			name:             "Header with blank text is plain text",
			markdown:         "#   \nbody",
			expectedSections: 1,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, IntroductionTitle, sections[0].Title)
				assert.Equal(t, "#   \nbody", sections[0].Content)
			},
		},
		{
			name:             "Headers with no content",
			markdown:         "# Header 1\n## Header 2\n### Header 3",
			expectedSections: 3,
			validateSections: func(t *testing.T, sections []Section) {
				for i, section := range sections {
					assert.Empty(t, section.Content, "section %d", i)
					assert.Equal(t, i+1, section.Level)
				}
			},
		},
		{
			name:             "Windows line endings",
			markdown:         "# A\r\nfoo\r\n# B\r\nbar",
			expectedSections: 2,
			validateSections: func(t *testing.T, sections []Section) {
				assert.Equal(t, "A", sections[0].Title)
				assert.Equal(t, "foo", sections[0].Content)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := Sectionize(tt.markdown)
			require.Len(t, sections, tt.expectedSections)
			tt.validateSections(t, sections)
		})
	}
}

func TestSectionize_TitlesNeverEmpty(t *testing.T) {
	inputs := []string{
		"text",
		"# A\n\n---\n\nb\n\n---\n\n# C",
		"---\n\n---\n\nx",
		"#\n#  \n# y",
	}
	for _, input := range inputs {
		for _, section := range Sectionize(input) {
			assert.NotEmpty(t, section.Title, "input %q", input)
			assert.GreaterOrEqual(t, section.Level, 1)
			assert.LessOrEqual(t, section.Level, 6)
		}
	}
}

func TestSectionize_FreshResultPerCall(t *testing.T) {
	input := "a\n\n---\n\nb"
	first := Sectionize(input)
	first[0].Title = "changed"

	second := Sectionize(input)
	assert.Equal(t, IntroductionTitle, second[0].Title)
	assert.Equal(t, "Section 1", second[1].Title)
}

func TestToMarkdown_RoundTrip(t *testing.T) {
	inputs := []string{
		"# A\nfoo\n# B\nbar",
		"alpha\n\n---\n\nbeta",
		"intro\n\n---\n\n## Part\ntext\n\n\nmore\n\n---\n\n### Deep\nmore",
		"---\nnot a divider\n\n# H\n---",
		"a\n\n---\n\n---\nb",
		"# Header 1\n## Header 2\n### Header 3",
		"#NoSpace\n  # indented\n| a | b |",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Sectionize(input)
			second := Sectionize(ToMarkdown(first))
			assert.Equal(t, first, second)
		})
	}
}

func TestToMarkdown(t *testing.T) {
	got := ToMarkdown([]Section{
		{Title: "Intro", Content: "hello", Level: 1},
		{Title: "Empty", Level: 3},
		{Title: "Tail", Content: "bye", Level: 2},
	})
	assert.Equal(t, "# Intro\nhello\n### Empty\n## Tail\nbye", got)
}
