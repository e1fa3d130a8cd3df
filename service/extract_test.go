package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExtractText_RejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := NewPDFExtractor().ExtractText(path)
	assert.True(t, errors.Is(err, ErrUnreadablePDF))
}

func Test_ExtractText_RejectsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := NewPDFExtractor().ExtractText(path)
	assert.True(t, errors.Is(err, ErrUnreadablePDF))
}

func Test_ExtractText_MissingFile(t *testing.T) {
	_, err := NewPDFExtractor().ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.True(t, errors.Is(err, ErrUnreadablePDF))
}
