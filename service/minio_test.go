package service

import (
	"testing"

	"github.com/contratos-rag/backend/config"
)

func TestNewMinioArchiver(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "contratos",
		UseSSL:    false,
	}

	// Client creation does not dial; connectivity is checked on first use
	svc, err := NewMinioArchiver(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil archiver")
	}
	if svc.bucket != "contratos" {
		t.Errorf("Expected bucket contratos, got %s", svc.bucket)
	}
}

func TestMinioArchiverEnsureBucket(t *testing.T) {
	// Note: This requires actual MinIO connection or proper mocking
	t.Skip("MinIO operations require a running MinIO instance")
}
