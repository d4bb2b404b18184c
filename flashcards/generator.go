package flashcards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrNoJSON is returned when a model reply carries no JSON array.
	ErrNoJSON = errors.New("no JSON array in model reply")
	// ErrInvalidCards is returned when the JSON array is not a list of cards.
	ErrInvalidCards = errors.New("invalid flash cards")
)

// Card is a generated question/answer pair.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generator produces flash cards from a titled markdown page.
type Generator interface {
	Generate(ctx context.Context, title, content string) ([]Card, error)
}

const cardsSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "answer"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "answer": {"type": "string", "minLength": 1}
    }
  }
}`

var (
	schemaLoader = gojsonschema.NewStringLoader(cardsSchema)
	arrayPattern = regexp.MustCompile(`\[[\s\S]*?\]`)
)

// BuildPrompt returns the instruction sent to every backend.
func BuildPrompt(title, content string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create comprehensive flash cards from the following content titled %q.\n\n", title)
	sb.WriteString("Create at least 5 and at most 10 flash cards based on the most important concepts.\n")
	sb.WriteString("Each flash card should have a clear question and a concise answer.\n")
	sb.WriteString("Focus on key concepts, definitions, and important facts.\n")
	sb.WriteString("Ensure the cards cover the main topics from all sections.\n")
	sb.WriteString("Return the results as JSON in the following format:\n")
	sb.WriteString(`[
  {"question": "Question 1?", "answer": "Answer 1"},
  {"question": "Question 2?", "answer": "Answer 2"}
]`)
	sb.WriteString("\n\nHere's the content:\n")
	sb.WriteString(content)
	return sb.String()
}

// ParseCards pulls the card array out of a model reply. The reply may wrap the
// array in prose or a code fence. The shortest bracketed span is tried first;
// when it does not decode (an answer containing "]"), the span up to the last
// closing bracket is tried.
func ParseCards(reply string) ([]Card, error) {
	span := arrayPattern.FindString(reply)
	if span == "" {
		return nil, ErrNoJSON
	}

	cards, err := decodeCards(span)
	if err == nil {
		return cards, nil
	}

	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if wide := reply[start : end+1]; wide != span {
		if cards, wideErr := decodeCards(wide); wideErr == nil {
			return cards, nil
		}
	}
	return nil, err
}

func decodeCards(span string) ([]Card, error) {
	var raw any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCards, err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: schema validation error: %v", ErrInvalidCards, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCards, strings.Join(problems, "; "))
	}

	var cards []Card
	if err := json.Unmarshal([]byte(span), &cards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCards, err)
	}
	return cards, nil
}
