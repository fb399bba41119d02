package ingestion

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractTextFromPDF reads the PDF's text layer. When the layer is empty it
// tries the pdftotext CLI (poppler) before giving up; scanned documents with
// no text layer at all are the caller's problem (OCR).
func ExtractTextFromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		if out, err := exec.Command("pdftotext", "-layout", path, "-").Output(); err == nil {
			return string(out), nil
		}
	}
	return text, nil
}
