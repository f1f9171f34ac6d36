package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDirOverFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	assert.ErrorContains(t, EnsureDir(filepath.Join(blocker, "sub")), "failed to create directory")
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path, size, err := WriteFile(dir, "chart.png", []byte("first version"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)

	path2, size, err := WriteFile(dir, "chart.png", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	assert.Equal(t, int64(2), size)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	_, _, err := WriteFile(dir, "empty.png", nil)
	require.ErrorIs(t, err, ErrEmptyFile)
	_, statErr := os.Stat(filepath.Join(dir, "empty.png"))
	assert.True(t, os.IsNotExist(statErr), "empty output is removed")
}

func TestWriteAtomicCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.yaml")
	require.NoError(t, WriteAtomic(path, []byte("a: 1\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestWaitForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.png")
	go func() {
		time.Sleep(80 * time.Millisecond)
		os.WriteFile(path, []byte("png"), 0644)
	}()
	require.NoError(t, WaitForFile(context.Background(), path, 2*time.Second))
}

func TestWaitForFileTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.png")
	err := WaitForFile(context.Background(), path, 60*time.Millisecond)
	assert.ErrorContains(t, err, "timeout waiting for file")
}

func TestWaitForFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForFile(ctx, filepath.Join(t.TempDir(), "never.png"), time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteAtomicCleansUpOnWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	// An empty directory squatting on the temp name makes the write fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0755))

	err := WriteAtomic(path, []byte("png"))
	assert.ErrorContains(t, err, "failed to write temp file")
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "temp file is removed")
	assert.NoFileExists(t, path)
}
