package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// TextExtractor turns a contract file on disk into plain text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// PDFExtractor extracts text from PDF files via docconv.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the concatenated page text of a PDF. A corrupt,
// encrypted or non-PDF file yields ErrUnreadablePDF.
func (e *PDFExtractor) ExtractText(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s is not a pdf file", ErrUnreadablePDF, filepath.Base(path))
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted from %s", ErrUnreadablePDF, filepath.Base(path))
	}

	return text, nil
}
