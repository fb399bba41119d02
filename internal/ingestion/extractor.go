// Package ingestion turns uploaded or fetched files into plain text for
// chunking. PDFs go through the embedded text layer first, then the pdftotext
// CLI, then OCR; images go straight to OCR.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var supportedExts = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Supported reports whether the file type can be ingested.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// ExtractText detects the file type and returns its text via direct read,
// PDF extraction or OCR.
func ExtractText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case ".pdf":
		text, err := ExtractTextFromPDF(path)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		// Scanned PDF with no text layer.
		return ExtractTextWithOCR(path)
	case ".png", ".jpg", ".jpeg":
		return ExtractTextWithOCR(path)
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}
