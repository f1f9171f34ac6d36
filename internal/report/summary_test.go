package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"bench-graphs/internal/charts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogResults(dir string) []charts.Result {
	specs := charts.Catalog()
	results := make([]charts.Result, len(specs))
	for i, s := range specs {
		results[i] = charts.Result{
			Name:  s.Name,
			Path:  filepath.Join(dir, s.Filename()),
			Size:  2048,
			Stats: charts.Stats{Width: 3000, Height: 1800},
		}
	}
	return results
}

func TestPrintMatchesExpectedText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, "graphs", catalogResults("graphs"), Options{}))

	want := "All graphs created successfully in 'graphs/' directory!\n" +
		"\n" +
		"Generated files:\n" +
		"1. thread_speedup.png\n" +
		"2. thread_efficiency.png\n" +
		"3. block_size_comparison.png\n" +
		"4. file_size_scaling.png\n" +
		"5. memory_optimization.png\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintTrailingSlashAndVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, "out/", catalogResults("out")[:1], Options{Verbose: true}))
	assert.Contains(t, buf.String(), "in 'out/' directory!")
	assert.Contains(t, buf.String(), "1. thread_speedup.png (3000x1800, 2.0 KB)")
}

func TestPrintPublished(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPublished(&buf, 5, 5))
	assert.Equal(t, "Published 5 of 5 charts to Telegram.\n", buf.String())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.5 KB", humanSize(1536))
	assert.Equal(t, "2.0 MB", humanSize(2<<20))
}
