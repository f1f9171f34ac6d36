package charts

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"bench-graphs/internal/infra/fs"
	logging "bench-graphs/internal/infra/log"

	"go.uber.org/zap"
)

// DefaultDir is where charts are written when no directory is configured.
const DefaultDir = "graphs"

// Result describes one chart written to disk.
type Result struct {
	Name  string
	Title string
	Path  string
	Size  int64
	Stats Stats
}

// Generator writes charts into Dir one after another.
type Generator struct {
	Dir      string
	Renderer Renderer
}

// NewGenerator returns a Generator writing to dir with r. A nil r uses the gg
// renderer at DefaultDPI.
func NewGenerator(dir string, r Renderer) *Generator {
	if dir == "" {
		dir = DefaultDir
	}
	if r == nil {
		r = NewGGRenderer(Options{})
	}
	return &Generator{Dir: dir, Renderer: r}
}

// Validate checks every spec without rendering anything.
func Validate(specs []Spec) error {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("chart %q is listed twice", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Generate creates the output directory and renders specs in order. Every
// spec is validated before the first file is written. On error the results
// for the charts already written are returned with it.
func (g *Generator) Generate(ctx context.Context, specs []Spec) ([]Result, error) {
	if err := Validate(specs); err != nil {
		logging.LogError("Chart data is malformed", zap.Error(err))
		return nil, err
	}
	if err := fs.EnsureDir(g.Dir); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("chart generation cancelled: %w", err)
		}
		res, err := g.render(spec)
		if err != nil {
			logging.LogError("Failed to generate chart",
				zap.String("chart", spec.Name),
				zap.Error(err))
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (g *Generator) render(spec Spec) (Result, error) {
	start := time.Now()

	var buf bytes.Buffer
	stats, err := g.Renderer.Render(spec, &buf)
	if err != nil {
		return Result{}, fmt.Errorf("failed to render %s: %w", spec.Name, err)
	}

	path, size, err := fs.WriteBuffer(g.Dir, spec.Filename(), &buf)
	if err != nil {
		return Result{}, fmt.Errorf("failed to save chart: %w", err)
	}

	logging.LogInfo("Chart generated successfully",
		zap.String("filename", path),
		zap.String("backend", g.Renderer.Name()),
		zap.Int64("fileSize", size),
		zap.Int("width", stats.Width),
		zap.Int("height", stats.Height),
		zap.Int("pointsCount", stats.Points+stats.Bars),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return Result{Name: spec.Name, Title: spec.Title, Path: path, Size: size, Stats: stats}, nil
}
