package service

import (
	"context"
	"fmt"
	"time"

	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/pkg/logger"
)

// IngestService turns a contract PDF into indexed chunks. A document is
// either fully indexed or not indexed at all: any failure aborts without a
// partial upsert, so queries never see half a document.
type IngestService struct {
	extractor TextExtractor
	chunker   *Chunker
	embedder  Embedder
	store     ChunkStore
	jobs      *IngestJobStore
	archiver  Archiver // optional, may be nil
	timeout   time.Duration
}

// Archiver keeps a copy of the source file after successful ingestion.
type Archiver interface {
	Archive(ctx context.Context, fileName, path string) error
}

func NewIngestService(
	extractor TextExtractor,
	chunker *Chunker,
	embedder Embedder,
	store ChunkStore,
	jobs *IngestJobStore,
	archiver Archiver,
	timeout time.Duration,
) *IngestService {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		jobs:      jobs,
		archiver:  archiver,
		timeout:   timeout,
	}
}

// Jobs exposes the job store for status queries.
func (s *IngestService) Jobs() *IngestJobStore {
	return s.jobs
}

// Submit registers a pending job for the file and returns it. The actual
// work happens in Run, typically on a separate goroutine.
func (s *IngestService) Submit(fileName string) *model.IngestJob {
	return s.jobs.Create(fileName)
}

// Run executes one ingestion job and records its outcome in the job store.
func (s *IngestService) Run(job *model.IngestJob, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, logger.JobIDKey, job.ID)
	ctx = context.WithValue(ctx, logger.FileKey, job.FileName)

	s.jobs.SetProcessing(job.ID)
	logger.Info(ctx, "ingestion started")

	count, err := s.IngestFile(ctx, path, job.FileName)
	if err != nil {
		logger.Error(ctx, "ingestion failed", "error", err)
		s.jobs.SetFailed(job.ID, err.Error())
		return
	}

	s.jobs.SetCompleted(job.ID, count)
	logger.Info(ctx, "ingestion completed", "chunks", count)
}

// IngestFile extracts, chunks, embeds and upserts one document. Returns the
// number of chunks indexed.
func (s *IngestService) IngestFile(ctx context.Context, path, fileName string) (int, error) {
	text, err := s.extractor.ExtractText(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", fileName, err)
	}

	texts := s.chunker.Split(text)
	if len(texts) == 0 {
		return 0, fmt.Errorf("extract %s: %w", fileName, ErrUnreadablePDF)
	}

	// Abort the whole document if any embedding fails; partial indexing
	// would break atomicity from the querying side.
	vecs, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", fileName, err)
	}

	// A wrong-length vector must never reach the collection, even from an
	// Embedder implementation that skips its own check.
	dim := s.embedder.Dimension()
	for i, vec := range vecs {
		if len(vec) != dim {
			return 0, fmt.Errorf("embed %s: chunk %d: %w: got %d, index expects %d",
				fileName, i, ErrDimensionMismatch, len(vec), dim)
		}
	}

	chunks := make([]model.Chunk, len(texts))
	for i := range texts {
		chunks[i] = model.Chunk{
			FileName:  fileName,
			Index:     i,
			Text:      texts[i],
			Embedding: vecs[i],
		}
	}

	if err := s.store.Upsert(ctx, fileName, chunks); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", fileName, err)
	}

	if s.archiver != nil {
		// Archival is best effort; the document is already queryable
		if err := s.archiver.Archive(ctx, fileName, path); err != nil {
			logger.Warn(ctx, "failed to archive source file", "error", err)
		}
	}

	return len(chunks), nil
}
