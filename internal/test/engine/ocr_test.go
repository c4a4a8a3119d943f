package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/engine"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644))
	}
}

func TestPageImages_IsolatedPerDirectory(t *testing.T) {
	// Two concurrent extractions render into separate directories; neither
	// may pick up the other's pages.
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFiles(t, dirA, "page-1.png", "page-2.png")
	writeFiles(t, dirB, "page-1.png")

	pagesA, err := engine.PageImages(dirA)
	require.NoError(t, err)
	require.Len(t, pagesA, 2)
	for _, p := range pagesA {
		assert.Equal(t, dirA, filepath.Dir(p))
	}

	pagesB, err := engine.PageImages(dirB)
	require.NoError(t, err)
	require.Len(t, pagesB, 1)
	assert.Equal(t, dirB, filepath.Dir(pagesB[0]))
}

func TestPageImages_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "page-2.png", "page-1.png", "page-3.png", "notes.txt", "other.png")

	pages, err := engine.PageImages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "page-1.png", filepath.Base(pages[0]))
	assert.Equal(t, "page-2.png", filepath.Base(pages[1]))
	assert.Equal(t, "page-3.png", filepath.Base(pages[2]))
}
