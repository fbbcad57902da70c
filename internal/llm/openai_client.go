// ABOUTME: OpenAI embedding client, the engine's only external dependency
// ABOUTME: Uses text-embedding-3-small (1536D, configurable); failures surface as ProviderError
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// DefaultVectorDimension is the output dimension of text-embedding-3-small
const DefaultVectorDimension = 1536

// ProviderError reports a failed embedding call: transport error, timeout,
// or a malformed response. It is retryable; retry policy belongs to the
// caller, never to this client or anything below it.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// EmbeddingModelFromName maps a configured model name onto the OpenAI
// model type, defaulting to text-embedding-3-small for an empty name.
func EmbeddingModelFromName(name string) openai.EmbeddingModel {
	if name == "" {
		return DefaultEmbeddingModel
	}
	return openai.EmbeddingModel(name)
}

// ClientConfig holds configuration for the OpenAI embedding client
type ClientConfig struct {
	APIKey         string
	EmbeddingModel openai.EmbeddingModel
	Dimension      int
}

// Client wraps the OpenAI API for embedding generation. It performs a
// single attempt per call and honors the caller's context deadline.
type Client struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewClient creates an embedding client with the given API key and defaults.
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{APIKey: apiKey})
}

// NewClientWithConfig creates an embedding client with custom configuration.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	model := config.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = DefaultVectorDimension
	}

	return &Client{
		client:    openai.NewClient(config.APIKey),
		model:     model,
		dimension: dimension,
	}, nil
}

// Dimension returns the expected embedding dimensionality.
func (c *Client) Dimension() int { return c.dimension }

// EmbedText generates one embedding vector for the given text. The text
// must be non-empty; callers are expected to have short-circuited empty
// intake before reaching the provider.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, &ProviderError{Op: "create embeddings", Err: err}
	}

	if len(resp.Data) == 0 {
		return nil, &ProviderError{Op: "create embeddings", Err: fmt.Errorf("no embeddings returned")}
	}

	embedding32 := resp.Data[0].Embedding
	if len(embedding32) != c.dimension {
		return nil, &ProviderError{
			Op:  "validate response",
			Err: fmt.Errorf("expected %d dimensions, got %d", c.dimension, len(embedding32)),
		}
	}

	// Convert []float32 to []float64
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}

	return embedding64, nil
}
