package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("report.pdf"))
	assert.True(t, Supported("notes.TXT"))
	assert.True(t, Supported("readme.md"))
	assert.True(t, Supported("scan.jpeg"))
	assert.False(t, Supported("archive.zip"))
	assert.False(t, Supported("binary"))
}

func TestExtractTextPlainFiles(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text body"), 0o644))

	md := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(md, []byte("# Title\n\nbody"), 0o644))

	got, err := ExtractText(txt)
	require.NoError(t, err)
	assert.Equal(t, "plain text body", got)

	got, err = ExtractText(md)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", got)
}

func TestExtractTextUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0o644))

	_, err := ExtractText(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
