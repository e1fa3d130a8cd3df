package model

import (
	"time"
)

// IngestJob tracks one background ingestion triggered by an upload.
type IngestJob struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Status     string    `json:"status"` // pending, processing, completed, failed
	ChunkCount int       `json:"chunk_count,omitempty"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IngestJob status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
