package flashcards

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    []Card
		wantErr error
	}{
		{
			name:  "Bare array",
			reply: `[{"question": "What is a cell?", "answer": "The unit of life."}]`,
			want:  []Card{{Question: "What is a cell?", Answer: "The unit of life."}},
		},
		{
			name: "Fenced with prose",
			reply: "Here are your cards:\n```json\n" +
				`[{"question": "Q1?", "answer": "A1"}, {"question": "Q2?", "answer": "A2"}]` +
				"\n```\nGood luck!",
			want: []Card{{Question: "Q1?", Answer: "A1"}, {Question: "Q2?", Answer: "A2"}},
		},
		{
			name:  "Bracket inside an answer",
			reply: `[{"question": "Array literal?", "answer": "Use [1, 2]"}]`,
			want:  []Card{{Question: "Array literal?", Answer: "Use [1, 2]"}},
		},
		{
			name:    "No array",
			reply:   "I cannot help with that.",
			wantErr: ErrNoJSON,
		},
		{
			name:    "Empty array",
			reply:   "[]",
			wantErr: ErrInvalidCards,
		},
		{
			name:    "Missing answer",
			reply:   `[{"question": "Q?"}]`,
			wantErr: ErrInvalidCards,
		},
		{
			name:    "Empty question",
			reply:   `[{"question": "", "answer": "A"}]`,
			wantErr: ErrInvalidCards,
		},
		{
			name:    "Not JSON",
			reply:   "[not json]",
			wantErr: ErrInvalidCards,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseCards(tt.reply)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cards)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cards)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Cells", "# Cells\nUnits of life.")

	assert.Contains(t, prompt, `titled "Cells"`)
	assert.Contains(t, prompt, "at least 5 and at most 10")
	assert.Contains(t, prompt, `"question"`)
	assert.True(t, strings.HasSuffix(prompt, "Here's the content:\n# Cells\nUnits of life."))
}

func TestReplyText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("[{\"question\":"), genai.Text(" \"Q\", \"answer\": \"A\"}]")}}},
		},
	}
	assert.Equal(t, `[{"question": "Q", "answer": "A"}]`, replyText(resp))
	assert.Empty(t, replyText(nil))
	assert.Empty(t, replyText(&genai.GenerateContentResponse{}))
}
