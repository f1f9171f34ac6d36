package charts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bench-graphs/internal/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesFiveCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graphs")
	g := NewGenerator(dir, NewGGRenderer(Options{DPI: testDPI}))

	results, err := g.Generate(context.Background(), Catalog())
	require.NoError(t, err)
	require.Len(t, results, 5)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for _, res := range results {
		info, err := os.Stat(res.Path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Equal(t, info.Size(), res.Size)
		assert.Equal(t, filepath.Join(dir, res.Name+".png"), res.Path)
	}
}

func TestGenerateTwiceOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graphs")
	g := NewGenerator(dir, NewGGRenderer(Options{DPI: testDPI}))

	first, err := g.Generate(context.Background(), Catalog())
	require.NoError(t, err)

	// Make the second run visibly replace the file.
	require.NoError(t, os.WriteFile(first[0].Path, []byte("stale"), 0644))

	second, err := g.Generate(context.Background(), Catalog())
	require.NoError(t, err)
	require.Len(t, second, 5)

	info, err := os.Stat(second[0].Path)
	require.NoError(t, err)
	assert.Equal(t, first[0].Size, info.Size())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestGeneratePlotBackend(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, NewPlotRenderer(Options{DPI: testDPI}))
	results, err := g.Generate(context.Background(), Catalog())
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestGenerateMismatchFailsBeforeWriting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graphs")
	specs := Catalog()
	specs[3].Data.Y = append(specs[3].Data.Y, 1)

	results, err := NewGenerator(dir, nil).Generate(context.Background(), specs)
	var shapeErr *bench.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "file_size_scaling", shapeErr.Dataset)
	assert.Empty(t, results)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created for malformed data")
}

func TestGenerateUnwritableDirectory(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewGenerator(filepath.Join(blocker, "graphs"), NewGGRenderer(Options{DPI: testDPI})).
		Generate(context.Background(), Catalog())
	assert.ErrorContains(t, err, "failed to create directory")
}

func TestGenerateDuplicateNames(t *testing.T) {
	specs := []Spec{FileSizeChart(), FileSizeChart()}
	_, err := NewGenerator(t.TempDir(), nil).Generate(context.Background(), specs)
	assert.ErrorContains(t, err, "listed twice")
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewGenerator(t.TempDir(), NewGGRenderer(Options{DPI: testDPI})).Generate(ctx, Catalog())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
