package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesFileLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(dir))
	t.Cleanup(func() {
		Logger = zap.NewNop()
		consoleLogger = zap.NewNop()
	})

	LogInfo("Chart generated successfully",
		zap.String("filename", "graphs/thread_speedup.png"),
		zap.Int64("fileSize", 1234),
		zap.Float64("dpi", 300),
		zap.Bool("overwritten", true))
	LogDebug("debug line")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "     INFO Chart generated successfully\t{")
	assert.Contains(t, lines[0], `"filename":"graphs/thread_speedup.png"`)
	assert.Contains(t, lines[0], `"fileSize":1234`)
	assert.Contains(t, lines[0], `"dpi":300`)
	assert.Contains(t, lines[0], `"overwritten":true`)
	assert.Contains(t, lines[1], "DEBUG debug line")
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, int64(42), extractDuration([]zap.Field{zap.String("a", "b"), zap.Int64("duration_ms", 42)}))
	assert.Equal(t, int64(42), extractDuration([]zap.Field{zap.Int("duration_ms", 42)}))
	assert.Zero(t, extractDuration([]zap.Field{zap.String("duration_ms", "42")}))
}

func TestLoggersAreNoopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError("nothing configured")
		LogSuccess("still nothing")
	})
}
