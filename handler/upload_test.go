package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/service"
	"github.com/gin-gonic/gin"
)

// fakeIngestor records submissions and marks jobs completed synchronously.
type fakeIngestor struct {
	jobs    *service.IngestJobStore
	ran     []string
	failAll bool
}

func newFakeIngestor() *fakeIngestor {
	return &fakeIngestor{jobs: service.NewIngestJobStore(100)}
}

func (f *fakeIngestor) Submit(fileName string) *model.IngestJob {
	return f.jobs.Create(fileName)
}

func (f *fakeIngestor) Run(job *model.IngestJob, path string) {
	f.ran = append(f.ran, path)
	if f.failAll {
		f.jobs.SetFailed(job.ID, "unreadable pdf")
		return
	}
	f.jobs.SetCompleted(job.ID, 4)
}

func (f *fakeIngestor) Jobs() *service.IngestJobStore { return f.jobs }

func newUploadRouter(h *UploadHandler) *gin.Engine {
	router := gin.New()
	router.POST("/upload/contrato", h.Upload)
	router.GET("/contratos/lista", h.ListIntake)
	router.GET("/upload/status/:id", h.JobStatus)
	return router
}

func multipartPDFRequest(t *testing.T, fieldFile, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fieldFile)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest("POST", "/upload/contrato", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandlerUpload(t *testing.T) {
	intakeDir := t.TempDir()
	ingestor := newFakeIngestor()
	handler := NewUploadHandler(ingestor, intakeDir)
	router := newUploadRouter(handler)

	req := multipartPDFRequest(t, "A.pdf", "%PDF-1.4 Rent: $1200/month")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp model.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.UploadID == "" {
		t.Error("Expected upload_id to be set")
	}
	if resp.FileName != "A.pdf" {
		t.Errorf("Expected file name A.pdf, got %s", resp.FileName)
	}
	if resp.Status != model.StatusPending {
		t.Errorf("Expected status pending, got %s", resp.Status)
	}

	// File landed in the intake folder
	if _, err := os.Stat(filepath.Join(intakeDir, "A.pdf")); err != nil {
		t.Errorf("Expected A.pdf in intake dir: %v", err)
	}
}

func TestUploadHandlerUploadNoFile(t *testing.T) {
	handler := NewUploadHandler(newFakeIngestor(), t.TempDir())
	router := newUploadRouter(handler)

	req := httptest.NewRequest("POST", "/upload/contrato", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUploadHandlerUploadWrongExtension(t *testing.T) {
	handler := NewUploadHandler(newFakeIngestor(), t.TempDir())
	router := newUploadRouter(handler)

	req := multipartPDFRequest(t, "notes.txt", "plain text")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUploadHandlerUploadNonPDFContent(t *testing.T) {
	intakeDir := t.TempDir()
	ingestor := newFakeIngestor()
	handler := NewUploadHandler(ingestor, intakeDir)
	router := newUploadRouter(handler)

	req := multipartPDFRequest(t, "fake.pdf", "<html>not a pdf</html>")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(ingestor.ran) != 0 {
		t.Error("Expected no ingestion for rejected file")
	}
}

func TestUploadHandlerJobStatus(t *testing.T) {
	ingestor := newFakeIngestor()
	handler := NewUploadHandler(ingestor, t.TempDir())
	router := newUploadRouter(handler)

	job := ingestor.Submit("A.pdf")
	ingestor.Run(job, "/tmp/A.pdf")

	req := httptest.NewRequest("GET", "/upload/status/"+job.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp model.IngestJob
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != model.StatusCompleted {
		t.Errorf("Expected status completed, got %s", resp.Status)
	}
	if resp.ChunkCount != 4 {
		t.Errorf("Expected chunk count 4, got %d", resp.ChunkCount)
	}
}

func TestUploadHandlerJobStatusNotFound(t *testing.T) {
	handler := NewUploadHandler(newFakeIngestor(), t.TempDir())
	router := newUploadRouter(handler)

	req := httptest.NewRequest("GET", "/upload/status/unknown-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestUploadHandlerListIntake(t *testing.T) {
	intakeDir := t.TempDir()
	os.WriteFile(filepath.Join(intakeDir, "a.pdf"), []byte("%PDF-"), 0o644)
	os.WriteFile(filepath.Join(intakeDir, "b.pdf"), []byte("%PDF-"), 0o644)
	os.WriteFile(filepath.Join(intakeDir, "skip.txt"), []byte("x"), 0o644)

	handler := NewUploadHandler(newFakeIngestor(), intakeDir)
	router := newUploadRouter(handler)

	req := httptest.NewRequest("GET", "/contratos/lista", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp model.FilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(resp.Files))
	}
}
