package store

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CreateEmbeddingFromText creates an embedding vector from text using OpenAI API
func CreateEmbeddingFromText(ctx context.Context, openaiClient openai.Client, text, embeddingModelId string) ([]float32, error) {
	embeddingsResponse, err := openaiClient.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: embeddingModelId,
	})
	if err != nil {
		return nil, err
	}
	if len(embeddingsResponse.Data) == 0 {
		return nil, errors.New("embedding response carried no data")
	}

	return ConvertOpenAIEmbeddingResponseToFloat32(embeddingsResponse), nil
}

// ConvertEmbeddingToFloat32 narrows an embedding to float32 for Redis vectors
func ConvertEmbeddingToFloat32(embedding []float64) []float32 {
	float32Embedding := make([]float32, len(embedding))
	for i, v := range embedding {
		float32Embedding[i] = float32(v)
	}
	return float32Embedding
}

// ConvertOpenAIEmbeddingResponseToFloat32 converts the first embedding of a response
func ConvertOpenAIEmbeddingResponseToFloat32(embeddingResponse *openai.CreateEmbeddingResponse) []float32 {
	return ConvertEmbeddingToFloat32(embeddingResponse.Data[0].Embedding)
}

// OpenAIEmbedder embeds text through an OpenAI-compatible endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

func NewOpenAIEmbedder(client openai.Client, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return CreateEmbeddingFromText(ctx, e.client, text, e.model)
}
