package service

import (
	"context"
	"fmt"
	"sort"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/contratos-rag/backend/config"
	"github.com/contratos-rag/backend/model"
)

// Metadata attribute keys stored with every chunk.
const (
	MetaFileName   = "file_name"
	MetaChunkIndex = "chunk_index"
)

// ChunkStore is the boundary to the vector database. The store is eventually
// consistent; callers must tolerate brief staleness after Upsert. Ordering of
// equally scored results is store-native and non-deterministic.
type ChunkStore interface {
	Upsert(ctx context.Context, fileName string, chunks []model.Chunk) error
	Query(ctx context.Context, embedding []float32, k int) ([]model.SearchResult, error)
	ListDocuments(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, fileName string) error
	Ping(ctx context.Context) error
}

// ChromaStore keeps contract chunks in a Chroma collection.
type ChromaStore struct {
	client chroma.Client
	col    chroma.Collection
}

func NewChromaStore(ctx context.Context, cfg *config.ChromaConfig) (*ChromaStore, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open collection %s: %v", ErrStoreUnavailable, cfg.Collection, err)
	}

	return &ChromaStore{client: client, col: col}, nil
}

// Upsert replaces all chunks of a file. Prior chunks for the same file name
// are deleted first, so a re-ingested shorter document cannot leave stale
// high-index chunks behind.
func (s *ChromaStore) Upsert(ctx context.Context, fileName string, chunks []model.Chunk) error {
	if err := s.DeleteDocument(ctx, fileName); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]chroma.DocumentID, len(chunks))
	texts := make([]string, len(chunks))
	embs := make([]embeddings.Embedding, len(chunks))
	metas := make([]chroma.DocumentMetadata, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chroma.DocumentID(fmt.Sprintf("%s#%d", fileName, chunk.Index))
		texts[i] = chunk.Text
		embs[i] = embeddings.NewEmbeddingFromFloat32(chunk.Embedding)
		metas[i] = chroma.NewDocumentMetadata(
			chroma.NewStringAttribute(MetaFileName, fileName),
			chroma.NewIntAttribute(MetaChunkIndex, int64(chunk.Index)),
		)
	}

	err := s.col.Add(ctx,
		chroma.WithIDs(ids...),
		chroma.WithTexts(texts...),
		chroma.WithEmbeddings(embs...),
		chroma.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert chunks for %s: %v", ErrStoreUnavailable, fileName, err)
	}

	return nil
}

// Query returns up to k nearest chunks, sorted descending by similarity
// score. Chroma reports cosine distance; score is 1 - distance.
func (s *ChromaStore) Query(ctx context.Context, embedding []float32, k int) ([]model.SearchResult, error) {
	r, err := s.col.Query(ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", ErrStoreUnavailable, err)
	}

	docGroups := r.GetDocumentsGroups()
	metaGroups := r.GetMetadatasGroups()
	distGroups := r.GetDistancesGroups()
	if len(docGroups) == 0 {
		return []model.SearchResult{}, nil
	}

	docs := docGroups[0]
	metas := metaGroups[0]
	dists := distGroups[0]

	res := make([]model.SearchResult, 0, len(docs))
	for i := range docs {
		file, _ := metas[i].GetString(MetaFileName)
		res = append(res, model.SearchResult{
			FileName: file,
			Index:    chunkIndexFromMetadata(metas[i]),
			Text:     docs[i].ContentString(),
			Score:    1 - float32(dists[i]),
		})
	}

	sortResultsByScore(res)

	return res, nil
}

// ListDocuments enumerates distinct source file names currently indexed.
func (s *ChromaStore) ListDocuments(ctx context.Context) ([]string, error) {
	res, err := s.col.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list documents: %v", ErrStoreUnavailable, err)
	}

	return distinctFileNames(res.GetMetadatas()), nil
}

func (s *ChromaStore) DeleteDocument(ctx context.Context, fileName string) error {
	err := s.col.Delete(ctx, chroma.WithWhereDelete(chroma.EqString(MetaFileName, fileName)))
	if err != nil {
		return fmt.Errorf("%w: failed to delete chunks for %s: %v", ErrStoreUnavailable, fileName, err)
	}

	return nil
}

func (s *ChromaStore) Ping(ctx context.Context) error {
	if err := s.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func chunkIndexFromMetadata(meta chroma.DocumentMetadata) int {
	if idx, ok := meta.GetInt(MetaChunkIndex); ok {
		return int(idx)
	}
	// chroma returns numeric attributes as floats on some endpoints
	if f, ok := meta.GetFloat(MetaChunkIndex); ok {
		return int(f)
	}
	return 0
}

// sortResultsByScore orders descending by score. The sort is stable so ties
// keep the store-native order.
func sortResultsByScore(res []model.SearchResult) {
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Score > res[j].Score
	})
}

func distinctFileNames(metas chroma.DocumentMetadatas) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, meta := range metas {
		file, ok := meta.GetString(MetaFileName)
		if !ok {
			continue
		}
		if _, dup := seen[file]; dup {
			continue
		}
		seen[file] = struct{}{}
		files = append(files, file)
	}

	sort.Strings(files)

	return files
}
