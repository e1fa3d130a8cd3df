package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contratos-rag/backend/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// IntakeWatcher ingests contract PDFs that appear in the intake directory,
// so files can be dropped there directly instead of going through the
// upload endpoint. Write events are debounced because a copy in progress
// fires many of them.
type IntakeWatcher struct {
	dir      string
	debounce time.Duration
	ingest   *IngestService
	store    ChunkStore
}

func NewIntakeWatcher(dir string, debounce time.Duration, ingest *IngestService, store ChunkStore) *IntakeWatcher {
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &IntakeWatcher{
		dir:      dir,
		debounce: debounce,
		ingest:   ingest,
		store:    store,
	}
}

// Sync ingests every intake PDF that is not yet present in the index.
// Called once at startup, before Watch.
func (w *IntakeWatcher) Sync(ctx context.Context) error {
	indexed, err := w.store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexed documents: %w", err)
	}

	known := make(map[string]struct{}, len(indexed))
	for _, f := range indexed {
		known[f] = struct{}{}
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read intake dir %s: %w", w.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		if _, ok := known[entry.Name()]; ok {
			continue
		}

		job := w.ingest.Submit(entry.Name())
		logger.Info(ctx, "intake sync: ingesting file", "file", entry.Name(), "job_id", job.ID)
		w.ingest.Run(job, filepath.Join(w.dir, entry.Name()))
	}

	return nil
}

// Watch blocks until the context is cancelled, ingesting PDFs as they land
// in the intake directory.
func (w *IntakeWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	// One pending timer per file collapses the event burst of a copy
	pending := make(map[string]*time.Timer)
	fire := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !isPDF(name) {
				continue
			}

			if timer, exists := pending[name]; exists {
				timer.Reset(w.debounce)
				continue
			}
			pending[name] = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- name:
				case <-ctx.Done():
				}
			})

		case name := <-fire:
			delete(pending, name)
			job := w.ingest.Submit(name)
			logger.Info(ctx, "intake watch: ingesting file", "file", name, "job_id", job.ID)
			go w.ingest.Run(job, filepath.Join(w.dir, name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "watcher error", "error", err)
		}
	}
}

// ListIntakeFiles returns the PDF file names currently in the intake folder.
func ListIntakeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}

	return files, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
