package encoder

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEncoder produces embedding vectors through the OpenAI embeddings API
// or any OpenAI-compatible server (e.g. a local inference endpoint).
type OpenAIEncoder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEncoder creates an encoder for the given API key. baseURL and
// model are optional overrides for OpenAI-compatible local servers.
func NewOpenAIEncoder(apiKey, baseURL, model string) *OpenAIEncoder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	embeddingModel := openai.AdaEmbeddingV2
	if model != "" {
		embeddingModel = openai.EmbeddingModel(model)
	}

	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(config),
		model:  embeddingModel,
	}
}

// EmbedBatch embeds all texts in a single API request and returns one
// vector per input, in input order.
func (e *OpenAIEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings API returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings API returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
