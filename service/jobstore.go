package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/contratos-rag/backend/model"
	"github.com/google/uuid"
)

// IngestJobStore is an in-memory record of background ingestion jobs, so an
// upload caller can poll what happened to its file. In production this could
// be replaced with a database.
type IngestJobStore struct {
	jobs    map[string]*model.IngestJob
	mu      sync.RWMutex
	maxJobs int // Maximum jobs to keep, 0 = unlimited
}

func NewIngestJobStore(maxJobs int) *IngestJobStore {
	if maxJobs < 0 {
		maxJobs = 0
	}
	return &IngestJobStore{
		jobs:    make(map[string]*model.IngestJob),
		maxJobs: maxJobs,
	}
}

// Create registers a new pending job for a file and returns it.
func (s *IngestJobStore) Create(fileName string) *model.IngestJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &model.IngestJob{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.jobs[job.ID] = job

	s.cleanupIfNeeded()

	snapshot := *job
	return &snapshot
}

// Get returns a snapshot of the job, or nil if unknown. A copy is returned
// because the background worker keeps updating the stored record.
func (s *IngestJobStore) Get(id string) *model.IngestJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil
	}
	snapshot := *j
	return &snapshot
}

func (s *IngestJobStore) SetProcessing(id string) {
	s.setStatus(id, model.StatusProcessing, 0, "")
}

func (s *IngestJobStore) SetCompleted(id string, chunkCount int) {
	s.setStatus(id, model.StatusCompleted, chunkCount, "")
}

func (s *IngestJobStore) SetFailed(id, errMsg string) {
	s.setStatus(id, model.StatusFailed, 0, errMsg)
}

func (s *IngestJobStore) setStatus(id, status string, chunkCount int, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = status
		j.ChunkCount = chunkCount
		j.ErrorMsg = errMsg
		j.UpdatedAt = time.Now()
	}
}

// Count returns the number of tracked jobs.
func (s *IngestJobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// cleanupIfNeeded removes oldest jobs if the store exceeds maxJobs.
// Must be called with lock held.
func (s *IngestJobStore) cleanupIfNeeded() {
	if s.maxJobs <= 0 {
		return // Unlimited
	}

	if len(s.jobs) <= s.maxJobs {
		return
	}

	jobs := make([]*model.IngestJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	removeCount := len(jobs) - s.maxJobs
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old ingest job",
			"job_id", jobs[i].ID,
			"created_at", jobs[i].CreatedAt,
		)
		delete(s.jobs, jobs[i].ID)
	}
}
