package flashcards

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIGenerator generates cards through an OpenAI-compatible chat endpoint.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(client openai.Client, model string) *OpenAIGenerator {
	return &OpenAIGenerator{client: client, model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, title, content string) ([]Card, error) {
	param := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write study flash cards and answer with JSON only."),
			openai.UserMessage(BuildPrompt(title, content)),
		},
		Model:       g.model,
		Temperature: openai.Float(0.2),
		TopP:        openai.Float(0.95),
		MaxTokens:   openai.Int(2048),
	}

	completion, err := g.client.Chat.Completions.New(ctx, param)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return ParseCards(completion.Choices[0].Message.Content)
}
