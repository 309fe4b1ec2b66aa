package fileutil_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/mkencbox/internal/fileutil"
)

func write(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 3 {
		write(t, filepath.Join(dir, "file"+string(rune('0'+i))), "a")
		write(t, filepath.Join(dir, "depth", "file"+string(rune('0'+i))), "a")
	}

	require.NoError(t, os.Symlink(filepath.Join(dir, "file0"), filepath.Join(dir, "link")))

	size, err := fileutil.Size(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)

	single := filepath.Join(t.TempDir(), "single")
	write(t, single, "7 bytes")

	size, err = fileutil.Size(single)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	_, err = fileutil.Size(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStaging(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	staging, err := fileutil.NewStaging(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(staging.Name()))

	err = staging.Fill(func(w io.Writer) error {
		_, err := io.WriteString(w, "staged content")

		return err
	})
	require.NoError(t, err)

	size, err := staging.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len("staged content")), size)

	got, err := io.ReadAll(staging.File())
	require.NoError(t, err)
	assert.Equal(t, "staged content", string(got), "Fill leaves the file rewound")

	require.NoError(t, staging.Remove())
	require.NoError(t, staging.Remove())

	_, err = os.Stat(staging.Name())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStagingFillError(t *testing.T) {
	t.Parallel()

	staging, err := fileutil.NewStaging(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() { _ = staging.Remove() })

	boom := errors.New("boom")
	require.ErrorIs(t, staging.Fill(func(io.Writer) error { return boom }), boom)
}

func TestRemoveOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	kept := filepath.Join(dir, "kept")
	write(t, kept, "x")

	var ok error
	fileutil.RemoveOnError(&ok, kept)
	assert.FileExists(t, kept)

	removed := filepath.Join(dir, "removed")
	write(t, filepath.Join(removed, "nested"), "x")

	failed := errors.New("failed")
	fileutil.RemoveOnError(&failed, removed)
	assert.NoDirExists(t, removed)
}

func TestFinalizeOutput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out")
	write(t, out, "12345")

	mtime := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)

	size, err := fileutil.FinalizeOutput(out, true, mtime)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, mtime.Equal(info.ModTime()))

	_, err = fileutil.FinalizeOutput(filepath.Join(t.TempDir(), "missing"), false, time.Time{})
	require.Error(t, err)
}
