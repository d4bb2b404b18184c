package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		expected  []string
	}{
		{
			name:      "Empty text",
			text:      "",
			chunkSize: 4,
			overlap:   0,
			expected:  []string{},
		},
		{
			name:      "No overlap",
			text:      "abcdefghij",
			chunkSize: 4,
			overlap:   0,
			expected:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:      "With overlap",
			text:      "abcdefghij",
			chunkSize: 4,
			overlap:   2,
			expected:  []string{"abcd", "cdef", "efgh", "ghij"},
		},
		{
			name:      "Text shorter than chunk",
			text:      "abc",
			chunkSize: 10,
			overlap:   3,
			expected:  []string{"abc"},
		},
		{
			name:      "Overlap not smaller than chunk size",
			text:      "abcdef",
			chunkSize: 2,
			overlap:   2,
			expected:  nil,
		},
		{
			name:      "Multi-byte text is cut on character boundaries",
			text:      "ééééé",
			chunkSize: 3,
			overlap:   0,
			expected:  []string{"é", "é", "é", "é", "é"},
		},
		{
			name:      "Overlap backs up to a character boundary",
			text:      "aaéé",
			chunkSize: 4,
			overlap:   1,
			expected:  []string{"aaé", "éé"},
		},
		{
			name:      "Character wider than the chunk size",
			text:      "日本",
			chunkSize: 2,
			overlap:   0,
			expected:  []string{"日", "本"},
		},
		{
			name:      "Zero chunk size",
			text:      "abcdef",
			chunkSize: 0,
			overlap:   0,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChunkText(tt.text, tt.chunkSize, tt.overlap))
		})
	}
}

func TestChunkSection(t *testing.T) {
	t.Run("Short body is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"short"}, ChunkSection("# Title", "short", 100))
	})

	t.Run("Header is prepended to later chunks", func(t *testing.T) {
		body := strings.Repeat("a", 16)
		chunks := ChunkSection("# Title", body, 12)
		assert.Equal(t, []string{"aaaaaaaaaaaa", "# Title\n\naaa", "# Title\n\na"}, chunks)
	})

	t.Run("Header that leaves no room is not prepended", func(t *testing.T) {
		chunks := ChunkSection("# Title", strings.Repeat("a", 10), 4)
		assert.Equal(t, []string{"aaaa", "aaaa", "aa"}, chunks)
	})

	t.Run("No header", func(t *testing.T) {
		chunks := ChunkSection("", "abcdef", 3)
		assert.Equal(t, []string{"abc", "def"}, chunks)
	})
}

func TestChunkSection_ValidUTF8WithinBound(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		body      string
		chunkSize int
	}{
		{name: "Accented header and body", header: "# É", body: "# É\n\n" + strings.Repeat("é", 15), chunkSize: 8},
		{name: "Accented body at 16 bytes", header: "# É", body: "# É\n\n" + strings.Repeat("é", 40), chunkSize: 16},
		{name: "Mixed scripts", header: "# Notes", body: strings.Repeat("cell 細胞 клетка ", 12), chunkSize: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkSection(tt.header, tt.body, tt.chunkSize)
			assert.Greater(t, len(chunks), 1)

			var rebuilt strings.Builder
			for i, chunk := range chunks {
				assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8: %q", i, chunk)
				assert.LessOrEqual(t, len(chunk), tt.chunkSize, "chunk %d: %q", i, chunk)
				if i > 0 {
					assert.True(t, strings.HasPrefix(chunk, tt.header+"\n\n"), chunk)
					chunk = strings.TrimPrefix(chunk, tt.header+"\n\n")
				}
				rebuilt.WriteString(chunk)
			}
			assert.Equal(t, tt.body, rebuilt.String())
		})
	}
}

func TestPreview(t *testing.T) {
	text := "\n# Title\n\n  first paragraph  \nsecond\nthird"

	assert.Equal(t, "# Title\nfirst paragraph", Preview(text, 2))
	assert.Equal(t, "", Preview(text, 0))
	assert.Equal(t, "", Preview("", 3))
	assert.Equal(t, "# Title\nfirst paragraph\nsecond\nthird", Preview(text, 10))
}
