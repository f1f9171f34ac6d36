// Package charts draws the benchmark charts and writes them to disk.
//
// A Spec describes one chart. Catalog returns the five fixed charts. A
// Renderer turns a Spec into PNG bytes; two are provided, one drawing by hand
// with gg and one built on gonum/plot. Generator writes every chart of a
// catalog into a directory.
package charts

import (
	"fmt"
	"io"
)

// DefaultDPI is the export resolution. A 10x6 inch chart comes out 3000x1800.
const DefaultDPI = 300

// Renderer draws a chart as a PNG into w.
type Renderer interface {
	Name() string
	Render(spec Spec, w io.Writer) (Stats, error)
}

// Stats records what a render actually put on the canvas.
type Stats struct {
	Width, Height   int // pixels
	Points          int // markers on the data series
	ReferencePoints int // vertices of the reference series
	ReferenceLines  int // horizontal reference lines
	Bars            int
	ValueLabels     []string
	Annotations     []string
	LegendEntries   []string
}

// Options configure a renderer.
type Options struct {
	DPI float64
}

func (o Options) dpi() float64 {
	if o.DPI <= 0 {
		return DefaultDPI
	}
	return o.DPI
}

// Backends lists the renderer names accepted by NewRenderer.
var Backends = []string{"gg", "plot"}

// NewRenderer returns the renderer registered under backend.
func NewRenderer(backend string, opts Options) (Renderer, error) {
	switch backend {
	case "", "gg":
		return NewGGRenderer(opts), nil
	case "plot":
		return NewPlotRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unknown chart backend %q (want one of %v)", backend, Backends)
	}
}

// pixels converts a figure size in inches to whole pixels at dpi.
func pixels(inches, dpi float64) int {
	return int(inches*dpi + 0.5)
}
