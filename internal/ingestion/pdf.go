package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxPDFBytes caps uploaded PDFs at 10MB.
const MaxPDFBytes = 10 << 20

// PDFTooLargeError is returned when an upload exceeds MaxPDFBytes.
type PDFTooLargeError struct {
	Size int64
}

func (e *PDFTooLargeError) Error() string {
	return fmt.Sprintf("pdf too large: %d bytes (max %d)", e.Size, MaxPDFBytes)
}

// EmptyDocumentError is returned when extraction yields no usable text.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string { return "document contains no extractable text" }

// ExtractPDF pulls plain text out of a PDF, page by page. Pages that fail to
// decode are skipped rather than failing the whole document.
func ExtractPDF(data []byte) (string, int, error) {
	if int64(len(data)) > MaxPDFBytes {
		return "", 0, &PDFTooLargeError{Size: int64(len(data))}
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("parse pdf: %w", err)
	}

	pageCount := reader.NumPage()
	var pages []string
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}

	joined := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if joined == "" {
		return "", pageCount, &EmptyDocumentError{}
	}
	return joined, pageCount, nil
}
