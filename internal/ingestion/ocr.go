package ingestion

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ExtractTextWithOCR runs Tesseract on images or scanned PDFs. PDF pages are
// rendered to PNGs with pdftoppm (poppler) first.
func ExtractTextWithOCR(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return runTesseract(path)
	}

	tmpPrefix := filepath.Join(os.TempDir(), "selfrag_pdfimg")
	cmd := exec.Command("pdftoppm", "-png", path, tmpPrefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm convert failed: %w", err)
	}
	matches, err := filepath.Glob(tmpPrefix + "-*.png")
	if err != nil {
		return "", err
	}

	var combined strings.Builder
	for _, m := range matches {
		t, err := runTesseract(m)
		os.Remove(m)
		if err != nil {
			continue
		}
		combined.WriteString(t)
		combined.WriteString("\n")
	}
	return strings.TrimSpace(combined.String()), nil
}

func runTesseract(imgPath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(imgPath); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
