package service

import (
	"context"
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	openai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/contratos-rag/backend/config"
)

// Embedder produces fixed-length vectors for chunk and query text. The same
// model and dimension must be used for ingestion and retrieval.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// OpenAIEmbedder wraps the chroma-go OpenAI embedding function.
type OpenAIEmbedder struct {
	ef        embeddings.EmbeddingFunction
	dimension int
}

func NewOpenAIEmbedder(cfg *config.OpenAIConfig, dimension int) (*OpenAIEmbedder, error) {
	opts := []openai.Option{
		openai.WithModel(openai.EmbeddingModel(cfg.EmbeddingModel)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	ef, err := openai.NewOpenAIEmbeddingFunction(cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI embedding function: %w", err)
	}

	return &OpenAIEmbedder{ef: ef, dimension: dimension}, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	emb, err := e.ef.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	vec := emb.ContentAsFloat32()
	if err := e.checkDimension(vec); err != nil {
		return nil, err
	}

	return vec, nil
}

func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embs, err := e.ef.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	if len(embs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmbeddingService, len(embs), len(texts))
	}

	vecs := make([][]float32, len(embs))
	for i, emb := range embs {
		vec := emb.ContentAsFloat32()
		if err := e.checkDimension(vec); err != nil {
			return nil, err
		}
		vecs[i] = vec
	}

	return vecs, nil
}

func (e *OpenAIEmbedder) checkDimension(vec []float32) error {
	if len(vec) != e.dimension {
		return fmt.Errorf("%w: got %d, index expects %d", ErrDimensionMismatch, len(vec), e.dimension)
	}
	return nil
}
