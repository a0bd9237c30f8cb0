// Package pdfcheck rejects unreadable uploads before they travel to the
// extraction backend, which bills per document.
package pdfcheck

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Checker validates that an uploaded file is a readable PDF.
type Checker struct {
	logger *zap.Logger
}

// NewChecker creates a new Checker.
func NewChecker(logger *zap.Logger) *Checker {
	return &Checker{logger: logger}
}

// Verify opens the document with mupdf and confirms at least one page is
// present. Returns the page count.
func (c *Checker) Verify(filename string, data []byte) (int, error) {
	if ext := strings.ToLower(filename); !strings.HasSuffix(ext, ".pdf") {
		return 0, fmt.Errorf("unsupported file type: %s", filename)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		c.logger.Warn("Rejected unreadable PDF upload",
			zap.String("filename", filename),
			zap.Error(err))
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("PDF has no pages")
	}

	c.logger.Debug("PDF upload verified",
		zap.String("filename", filename),
		zap.Int("pages", pages))
	return pages, nil
}
