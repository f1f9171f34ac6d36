package export

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"bench-graphs/internal/bench"
	"bench-graphs/internal/charts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, bench.All()))

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "\n---\n"), "five documents")
	assert.Contains(t, out, "name: thread_efficiency")
	assert.Contains(t, out, "- 119.5")
	assert.Contains(t, out, "- Before Optimization")

	got, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, bench.All(), got)
}

func TestWriteYAMLRejectsMalformed(t *testing.T) {
	bad := bench.FileSizeThroughput
	bad.Y = bad.Y[:2]
	var buf bytes.Buffer
	err := WriteYAML(&buf, []bench.Dataset{bad})
	var shapeErr *bench.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "file_size_scaling", shapeErr.Dataset)
}

func TestReadYAMLValidates(t *testing.T) {
	doc := "name: broken\ny_label: v\nx: [1, 2, 3]\ny: [1]\n"
	_, err := ReadYAML(strings.NewReader(doc))
	var shapeErr *bench.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "benchmarks.xlsx")
	require.NoError(t, WriteWorkbook(path, charts.Catalog()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"thread_speedup",
		"thread_efficiency",
		"block_size_comparison",
		"file_size_scaling",
		"memory_optimization",
	}, f.GetSheetList())

	rows, err := f.GetRows("thread_speedup")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Number of Threads", "Speedup", "Ideal (Linear)"}, rows[0])
	assert.Equal(t, []string{"16", "17.58", "16"}, rows[5])

	rows, err = f.GetRows("thread_efficiency")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "119.5", "100"}, rows[2])

	rows, err = f.GetRows("memory_optimization")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Category", "Memory Usage (MB)"}, rows[0])
	assert.Equal(t, []string{"After Optimization", "121"}, rows[2])

	assert.Equal(t, 5, countCharts(t, path))
}

func TestWriteWorkbookRejectsMalformed(t *testing.T) {
	specs := charts.Catalog()
	specs[0].Data.Y = specs[0].Data.Y[:1]
	dir := t.TempDir()
	err := WriteWorkbook(filepath.Join(dir, "b.xlsx"), specs)
	var shapeErr *bench.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.NoFileExists(t, filepath.Join(dir, "b.xlsx"))
}

func countCharts(t *testing.T, path string) int {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") && strings.HasSuffix(f.Name, ".xml") {
			n++
		}
	}
	return n
}
