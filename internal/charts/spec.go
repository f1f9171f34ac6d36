package charts

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"bench-graphs/internal/bench"

	"gonum.org/v1/plot"
)

// Kind selects how the dataset is drawn.
type Kind int

const (
	// Line draws a polyline with a marker at every point.
	Line Kind = iota
	// Bar draws one bar per point at evenly spaced categorical positions.
	Bar
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Bar:
		return "bar"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Spec is everything needed to draw one chart.
type Spec struct {
	Name   string // output file basename, without extension
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	Data   bench.Dataset

	// SeriesLabel is the legend entry for Data. Empty keeps it out of the legend.
	SeriesLabel string
	Color       color.Color
	// BarColors overrides Color per bar.
	BarColors []color.Color
	// BarEdgeWidth is the outline width of bars, in points.
	BarEdgeWidth float64

	Reference *Reference
	HLine     *HLine

	// ValueFormat, when set, labels every point with fmt.Sprintf(ValueFormat, y).
	ValueFormat    string
	ValueLabelSize float64 // points

	Annotations []Annotation

	// YRange fixes the value axis; nil picks a range from the data.
	YRange *Range

	Width  float64 // inches
	Height float64 // inches
}

// Reference is a second series drawn dashed against the same X values.
type Reference struct {
	Label string
	Y     []float64
	Color color.Color
}

// HLine is a dashed horizontal line across the whole plot.
type HLine struct {
	Label string
	Y     float64
	Color color.Color
}

// Annotation places Text at (X, Y) with an arrow pointing at (ArrowX, ArrowY),
// all in data coordinates. For bar charts X is the bar index.
type Annotation struct {
	Text           string
	X, Y           float64
	ArrowX, ArrowY float64
	Color          color.Color
}

// Range is a closed interval on an axis.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Validate checks the dataset shape and that the spec can be drawn.
// It never touches the filesystem.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("chart has no name")
	}
	if s.Data.Name == "" {
		s.Data.Name = s.Name
	}
	if err := s.Data.Validate(); err != nil {
		return err
	}
	if s.Kind == Line && s.Data.Categories != nil {
		return fmt.Errorf("chart %q: line charts need numeric x values", s.Name)
	}
	if s.Reference != nil && len(s.Reference.Y) != s.Data.Len() {
		return &bench.ShapeError{Dataset: s.Data.Name, Series: "reference", XLen: s.Data.Len(), YLen: len(s.Reference.Y)}
	}
	if s.BarColors != nil && len(s.BarColors) != s.Data.Len() {
		return fmt.Errorf("chart %q: %d bar colors for %d bars", s.Name, len(s.BarColors), s.Data.Len())
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("chart %q: figure size %.2fx%.2f in is not positive", s.Name, s.Width, s.Height)
	}
	if s.YRange != nil && !(s.YRange.Max > s.YRange.Min) {
		return fmt.Errorf("chart %q: empty y range [%v, %v]", s.Name, s.YRange.Min, s.YRange.Max)
	}
	return nil
}

// Filename is the file the chart is written to inside the output directory.
func (s Spec) Filename() string { return s.Name + ".png" }

// ValueLabel formats the label for point i, or "" when value labels are off.
func (s Spec) ValueLabel(i int) string {
	if s.ValueFormat == "" {
		return ""
	}
	return fmt.Sprintf(s.ValueFormat, s.Data.Y[i])
}

// legendEntries counts the series that show up in the legend.
func (s Spec) legendEntries() int {
	n := 0
	if s.SeriesLabel != "" {
		n++
	}
	if s.Reference != nil && s.Reference.Label != "" {
		n++
	}
	if s.HLine != nil && s.HLine.Label != "" {
		n++
	}
	return n
}

// hasLegend reports whether a legend is drawn: only when a second series sits
// next to the data and something is labelled.
func (s Spec) hasLegend() bool {
	return (s.Reference != nil || s.HLine != nil) && s.legendEntries() > 0
}

// xPositions returns where each point sits on the x axis.
func (s Spec) xPositions() []float64 {
	if s.Kind == Bar {
		xs := make([]float64, s.Data.Len())
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs
	}
	return s.Data.X
}

// xTicks puts a tick under every data point.
func (s Spec) xTicks() []plot.Tick {
	xs := s.xPositions()
	ticks := make([]plot.Tick, len(xs))
	for i, x := range xs {
		ticks[i].Value = x
		switch {
		case s.Data.Categories != nil:
			ticks[i].Label = s.Data.Categories[i]
		default:
			ticks[i].Label = strconv.FormatFloat(s.Data.X[i], 'g', -1, 64)
		}
	}
	return ticks
}

// xRange pads the data 5% each side for lines, and half a bar slot for bars.
func (s Spec) xRange() Range {
	xs := s.xPositions()
	lo, hi := minMax(xs)
	if s.Kind == Bar {
		return Range{Min: lo - 0.6, Max: hi + 0.6}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return Range{Min: lo - pad, Max: hi + pad}
}

// yRange covers every drawn value. Bars start at zero and get headroom for
// their value labels.
func (s Spec) yRange() Range {
	if s.YRange != nil {
		return *s.YRange
	}
	lo, hi := minMax(s.Data.Y)
	if s.Reference != nil {
		rlo, rhi := minMax(s.Reference.Y)
		lo, hi = math.Min(lo, rlo), math.Max(hi, rhi)
	}
	if s.HLine != nil {
		lo, hi = math.Min(lo, s.HLine.Y), math.Max(hi, s.HLine.Y)
	}
	for _, a := range s.Annotations {
		lo, hi = math.Min(lo, math.Min(a.Y, a.ArrowY)), math.Max(hi, math.Max(a.Y, a.ArrowY))
	}
	if s.Kind == Bar {
		lo = math.Min(lo, 0)
		return Range{Min: lo, Max: hi * 1.1}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return Range{Min: lo - pad, Max: hi + pad}
}

// yTicks returns the labelled major ticks gonum/plot would pick for r.
func yTicks(r Range) []plot.Tick {
	var major []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(r.Min, r.Max) {
		if t.IsMinor() || t.Value < r.Min || t.Value > r.Max {
			continue
		}
		major = append(major, t)
	}
	return major
}

func minMax(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
