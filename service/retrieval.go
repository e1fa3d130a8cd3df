package service

import (
	"context"
	"fmt"

	"github.com/contratos-rag/backend/model"
)

// RetrievalService answers free-text queries with ranked chunks. An empty
// result set is a valid answer, not an error.
type RetrievalService struct {
	embedder Embedder
	store    ChunkStore
	defaultK int
	maxK     int
}

func NewRetrievalService(embedder Embedder, store ChunkStore, defaultK, maxK int) *RetrievalService {
	if defaultK <= 0 {
		defaultK = 5
	}
	if maxK <= 0 {
		maxK = 20
	}
	return &RetrievalService{
		embedder: embedder,
		store:    store,
		defaultK: defaultK,
		maxK:     maxK,
	}
}

// Search embeds the query and returns up to k nearest chunks, sorted
// descending by similarity score. k <= 0 selects the default, k above the
// configured maximum is clamped.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]model.SearchResult, error) {
	k = s.clampK(k)

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	// The adapter sorts already; enforce the contract regardless of the
	// store implementation behind the interface.
	sortResultsByScore(results)
	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// ListDocuments returns one page of the distinct indexed documents together
// with the total count.
func (s *RetrievalService) ListDocuments(ctx context.Context, skip, limit int) ([]string, int, error) {
	files, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(files)
	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return []string{}, total, nil
	}
	if limit <= 0 {
		limit = s.defaultK
	}

	end := min(skip+limit, total)

	return files[skip:end], total, nil
}

// Files returns the full set of indexed file names.
func (s *RetrievalService) Files(ctx context.Context) ([]string, error) {
	return s.store.ListDocuments(ctx)
}

func (s *RetrievalService) clampK(k int) int {
	if k <= 0 {
		return s.defaultK
	}
	if k > s.maxK {
		return s.maxK
	}
	return k
}
