package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateZip(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "25.jpg", "first"),
		writeFile(t, dir, "50.jpg", "second"),
	}
	out := filepath.Join(t.TempDir(), "keyframes.zip")

	require.NoError(t, NewZipCreator().CreateZip(context.Background(), files, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 2)
	assert.Equal(t, "25.jpg", r.File[0].Name)
	assert.Equal(t, "50.jpg", r.File[1].Name)

	rc, err := r.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))
}

func TestCreateZipMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "keyframes.zip")
	err := NewZipCreator().CreateZip(context.Background(), []string{"/does/not/exist.jpg"}, out)
	assert.ErrorContains(t, err, "add /does/not/exist.jpg to zip")
}

func TestCreateZipCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "1.jpg", "x")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewZipCreator().CreateZip(ctx, files, filepath.Join(dir, "out.zip"))
	assert.ErrorIs(t, err, context.Canceled)
}
