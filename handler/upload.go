package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/service"
	"github.com/gin-gonic/gin"
)

// Ingestor is the ingestion surface the upload handler needs.
type Ingestor interface {
	Submit(fileName string) *model.IngestJob
	Run(job *model.IngestJob, path string)
	Jobs() *service.IngestJobStore
}

// UploadHandler receives contract PDFs and hands them to the background
// ingestion pipeline. The HTTP response only acknowledges receipt; callers
// poll the job status endpoint with the returned upload id.
type UploadHandler struct {
	ingest    Ingestor
	intakeDir string
}

func NewUploadHandler(ingest Ingestor, intakeDir string) *UploadHandler {
	return &UploadHandler{
		ingest:    ingest,
		intakeDir: intakeDir,
	}
}

// Upload handles contract file upload
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "no file provided"})
		return
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "only PDF files are allowed"})
		return
	}

	// Reject obvious non-PDF payloads before accepting the upload
	buffer := make([]byte, 512)
	n, _ := file.Read(buffer)
	file.Seek(0, io.SeekStart)
	if detected := http.DetectContentType(buffer[:n]); !strings.Contains(detected, "pdf") {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "file content is not a PDF"})
		return
	}

	path := filepath.Join(h.intakeDir, fileName)
	if err := saveUpload(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to save file: " + err.Error()})
		return
	}

	job := h.ingest.Submit(fileName)
	go h.ingest.Run(job, path)

	c.JSON(http.StatusAccepted, model.UploadResponse{
		UploadID: job.ID,
		FileName: fileName,
		Status:   job.Status,
	})
}

// ListIntake returns the file names present in the intake folder
func (h *UploadHandler) ListIntake(c *gin.Context) {
	files, err := service.ListIntakeFiles(h.intakeDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.FilesResponse{Files: files})
}

// JobStatus returns the ingestion status for an upload id
func (h *UploadHandler) JobStatus(c *gin.Context) {
	id := c.Param("id")

	job := h.ingest.Jobs().Get(id)
	if job == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "upload not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func saveUpload(src io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
