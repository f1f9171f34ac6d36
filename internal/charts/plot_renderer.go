package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PlotRenderer builds charts out of gonum/plot plotters.
type PlotRenderer struct {
	dpi float64
}

// NewPlotRenderer returns a gonum/plot renderer.
func NewPlotRenderer(opts Options) *PlotRenderer {
	return &PlotRenderer{dpi: opts.dpi()}
}

// Name implements Renderer.
func (r *PlotRenderer) Name() string { return "plot" }

// Render implements Renderer.
func (r *PlotRenderer) Render(spec Spec, w io.Writer) (Stats, error) {
	if err := spec.Validate(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	p := setupPlot(spec)

	var legend legendThumbs
	if err := addReferences(p, spec, &stats, &legend); err != nil {
		return Stats{}, err
	}
	switch spec.Kind {
	case Line:
		if err := addLine(p, spec, &stats, &legend); err != nil {
			return Stats{}, err
		}
	case Bar:
		addBars(p, spec, &stats)
	}
	if spec.hasLegend() {
		for _, e := range legend.ordered() {
			p.Legend.Add(e.label, e.thumbs...)
			stats.LegendEntries = append(stats.LegendEntries, e.label)
		}
	}
	if err := addValueLabels(p, spec, &stats); err != nil {
		return Stats{}, err
	}
	if err := addAnnotations(p, spec, &stats); err != nil {
		return Stats{}, err
	}

	// Fix the axes last: Add widens them to every plotter's data range.
	xr, yr := spec.xRange(), spec.yRange()
	p.X.Min, p.X.Max = xr.Min, xr.Max
	p.Y.Min, p.Y.Max = yr.Min, yr.Max

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(spec.Width)*vg.Inch, vg.Length(spec.Height)*vg.Inch),
		vgimg.UseDPI(int(math.Round(r.dpi))),
	)
	p.Draw(draw.New(c))

	b := c.Image().Bounds()
	stats.Width, stats.Height = b.Dx(), b.Dy()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return Stats{}, fmt.Errorf("failed to encode %s: %w", spec.Name, err)
	}
	return stats, nil
}

func setupPlot(spec Spec) *plot.Plot {
	p := plot.New()

	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontSize)
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Label.TextStyle.Font.Size = vg.Points(axisLabelFontSize)
		a.Label.TextStyle.Font.Weight = xfont.WeightBold
		a.Label.TextStyle.Color = textColor
		a.Tick.Label.Font.Size = vg.Points(tickFontSize)
		a.Tick.Label.Color = textColor
	}

	p.X.Tick.Marker = plot.ConstantTicks(spec.xTicks())
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks(spec.yRange()))

	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{Y: 220}
	grid.Vertical.Color = color.Gray{Y: 220}
	if spec.Kind == Bar {
		grid.Vertical.Color = nil
	}
	p.Add(grid)

	p.Legend.TextStyle.Font.Size = vg.Points(legendFontSize)
	p.Legend.Top = true
	p.Legend.Left = spec.Reference != nil
	p.Legend.Padding = 1 * vg.Millimeter
	p.BackgroundColor = figureBackground

	return p
}

func dashed(c color.Color) draw.LineStyle {
	return draw.LineStyle{
		Color:  withAlpha(refColor(c), 0.5),
		Width:  vg.Points(referenceLineWidth),
		Dashes: []vg.Length{vg.Points(6), vg.Points(3)},
	}
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts
}

type legendThumb struct {
	label  string
	thumbs []plot.Thumbnailer
}

// legendThumbs collects legend entries while plotters are added so the data
// series can be listed first regardless of drawing order.
type legendThumbs struct {
	series, refs []legendThumb
}

func (l *legendThumbs) ordered() []legendThumb {
	return append(append([]legendThumb(nil), l.series...), l.refs...)
}

func addReferences(p *plot.Plot, spec Spec, stats *Stats, legend *legendThumbs) error {
	if ref := spec.Reference; ref != nil {
		l, err := plotter.NewLine(xys(spec.xPositions(), ref.Y))
		if err != nil {
			return fmt.Errorf("chart %q: reference: %w", spec.Name, err)
		}
		l.LineStyle = dashed(ref.Color)
		p.Add(l)
		stats.ReferencePoints += len(ref.Y)
		if ref.Label != "" {
			legend.refs = append(legend.refs, legendThumb{label: ref.Label, thumbs: []plot.Thumbnailer{l}})
		}
	}
	if hl := spec.HLine; hl != nil {
		y := hl.Y
		fn := plotter.NewFunction(func(float64) float64 { return y })
		fn.LineStyle = dashed(hl.Color)
		p.Add(fn)
		stats.ReferenceLines++
		if hl.Label != "" {
			legend.refs = append(legend.refs, legendThumb{label: hl.Label, thumbs: []plot.Thumbnailer{fn}})
		}
	}
	return nil
}

func addLine(p *plot.Plot, spec Spec, stats *Stats, legend *legendThumbs) error {
	col := spec.Color
	if col == nil {
		col = Palette[0]
	}
	line, points, err := plotter.NewLinePoints(xys(spec.Data.X, spec.Data.Y))
	if err != nil {
		return fmt.Errorf("chart %q: %w", spec.Name, err)
	}
	line.LineStyle.Color = col
	line.LineStyle.Width = vg.Points(seriesLineWidth)
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(markerRadius)
	points.Color = col
	p.Add(line, points)
	stats.Points += points.Len()

	if spec.SeriesLabel != "" {
		legend.series = append(legend.series, legendThumb{label: spec.SeriesLabel, thumbs: []plot.Thumbnailer{line, points}})
	}
	return nil
}

func addBars(p *plot.Plot, spec Spec, stats *Stats) {
	col := spec.Color
	if col == nil {
		col = Palette[0]
	}
	bars := &dataBars{
		values: spec.Data.Y,
		width:  barWidthFraction,
		colors: make([]color.Color, len(spec.Data.Y)),
		edge: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(spec.BarEdgeWidth),
		},
	}
	for i := range bars.colors {
		c := col
		if spec.BarColors != nil {
			c = spec.BarColors[i]
		}
		bars.colors[i] = withAlpha(c, barAlpha)
	}
	p.Add(bars)
	stats.Bars += len(bars.values)
}

func addValueLabels(p *plot.Plot, spec Spec, stats *Stats) error {
	if spec.ValueFormat == "" {
		return nil
	}
	xs := spec.xPositions()
	labels := make([]string, len(xs))
	for i := range labels {
		labels[i] = spec.ValueLabel(i)
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys(xs, spec.Data.Y), Labels: labels})
	if err != nil {
		return fmt.Errorf("chart %q: value labels: %w", spec.Name, err)
	}
	size := spec.ValueLabelSize
	if size == 0 {
		size = defaultValueSize
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(size)
		l.TextStyle[i].Font.Weight = xfont.WeightBold
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YBottom
		l.TextStyle[i].Color = textColor
	}
	l.Offset = vg.Point{Y: vg.Points(2)}
	p.Add(l)
	stats.ValueLabels = append(stats.ValueLabels, labels...)
	return nil
}

func addAnnotations(p *plot.Plot, spec Spec, stats *Stats) error {
	for _, a := range spec.Annotations {
		col := a.Color
		if col == nil {
			col = textColor
		}
		p.Add(&arrow{
			tail:  plotter.XY{X: a.X, Y: a.Y},
			head:  plotter.XY{X: a.ArrowX, Y: a.ArrowY},
			style: draw.LineStyle{Color: col, Width: vg.Points(arrowLineWidth)},
		})

		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: a.X, Y: a.Y}},
			Labels: []string{a.Text},
		})
		if err != nil {
			return fmt.Errorf("chart %q: annotation: %w", spec.Name, err)
		}
		l.TextStyle[0].Font.Size = vg.Points(annotationSize)
		l.TextStyle[0].Font.Weight = xfont.WeightBold
		l.TextStyle[0].XAlign = text.XCenter
		l.TextStyle[0].YAlign = text.YBottom
		l.TextStyle[0].Color = col
		l.Offset = vg.Point{Y: vg.Points(2)}
		p.Add(l)
		stats.Annotations = append(stats.Annotations, a.Text)
	}
	return nil
}

// dataBars draws bar i centred on x=i, width measured in data units so bars
// keep their proportions at any figure size.
type dataBars struct {
	values []float64
	width  float64
	colors []color.Color
	edge   draw.LineStyle
}

// Plot implements the plot.Plotter interface.
func (b *dataBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, v := range b.values {
		x0 := trX(float64(i) - b.width/2)
		x1 := trX(float64(i) + b.width/2)
		y0, y1 := trY(0), trY(v)
		pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.colors[i], c.ClipPolygonY(pts))
		if b.edge.Width > 0 {
			c.StrokeLines(b.edge, c.ClipLinesY(append(pts, pts[0]))...)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *dataBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	lo, hi := minMax(b.values)
	return -b.width / 2, float64(len(b.values)-1) + b.width/2, math.Min(lo, 0), math.Max(hi, 0)
}

// arrow is a straight line from tail to head with an open head.
type arrow struct {
	tail, head plotter.XY
	style      draw.LineStyle
}

// Plot implements the plot.Plotter interface.
func (a *arrow) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	tx, ty := trX(a.tail.X), trY(a.tail.Y)
	hx, hy := trX(a.head.X), trY(a.head.Y)
	c.StrokeLine2(a.style, tx, ty, hx, hy)

	angle := math.Atan2(float64(hy-ty), float64(hx-tx))
	l := float64(vg.Points(arrowHeadLength))
	for _, side := range []float64{-1, 1} {
		theta := angle + side*25*math.Pi/180
		c.StrokeLine2(a.style, hx, hy,
			hx-vg.Length(l*math.Cos(theta)), hy-vg.Length(l*math.Sin(theta)))
	}
}
