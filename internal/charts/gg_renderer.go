package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/plot"
)

// Font sizes in points.
const (
	titleFontSize     = 16.0
	axisLabelFontSize = 14.0
	tickFontSize      = 11.0
	legendFontSize    = 12.0
	annotationSize    = 14.0
	defaultValueSize  = 10.0
)

// Line and marker geometry in points.
const (
	seriesLineWidth    = 2.0
	markerRadius       = 5.0
	referenceLineWidth = 2.0
	gridLineWidth      = 0.8
	tickLength         = 4.0
	outerPadding       = 8.0
	labelGap           = 6.0
	barWidthFraction   = 0.8
	barAlpha           = 0.8
	arrowHeadLength    = 10.0
	arrowLineWidth     = 2.0
)

// GGRenderer draws charts by hand on a gg raster context.
type GGRenderer struct {
	dpi float64
}

// NewGGRenderer returns a gg renderer.
func NewGGRenderer(opts Options) *GGRenderer {
	return &GGRenderer{dpi: opts.dpi()}
}

// Name implements Renderer.
func (r *GGRenderer) Name() string { return "gg" }

// Render implements Renderer.
func (r *GGRenderer) Render(spec Spec, w io.Writer) (Stats, error) {
	if err := spec.Validate(); err != nil {
		return Stats{}, err
	}
	if err := loadFonts(); err != nil {
		return Stats{}, err
	}

	c := newGGCanvas(spec, r.dpi)
	c.draw()

	if err := c.dc.EncodePNG(w); err != nil {
		return Stats{}, fmt.Errorf("failed to encode %s: %w", spec.Name, err)
	}
	return c.stats, nil
}

// ggCanvas holds the state for drawing one chart.
type ggCanvas struct {
	dc    *gg.Context
	spec  Spec
	dpi   float64
	stats Stats

	xr, yr         Range
	xTicks, yTicks []plot.Tick

	// Plot area in pixels; top < bottom.
	left, top, right, bottom float64
}

func newGGCanvas(spec Spec, dpi float64) *ggCanvas {
	w, h := pixels(spec.Width, dpi), pixels(spec.Height, dpi)
	c := &ggCanvas{
		dc:   gg.NewContext(w, h),
		spec: spec,
		dpi:  dpi,
		xr:   spec.xRange(),
		yr:   spec.yRange(),
	}
	c.stats.Width, c.stats.Height = w, h
	c.xTicks = spec.xTicks()
	c.yTicks = yTicks(c.yr)
	c.layout()
	return c
}

// pt converts points to pixels.
func (c *ggCanvas) pt(v float64) float64 { return v * c.dpi / 72 }

func (c *ggCanvas) setFont(bold bool, size float64) {
	c.dc.SetFontFace(fontFace(bold, size, c.dpi))
}

// layout sizes the margins from the text that has to fit around the plot area.
func (c *ggCanvas) layout() {
	W, H := float64(c.dc.Width()), float64(c.dc.Height())
	pad, gap, tick := c.pt(outerPadding), c.pt(labelGap), c.pt(tickLength)

	c.setFont(true, titleFontSize)
	titleH := c.dc.FontHeight()
	c.setFont(true, axisLabelFontSize)
	axisH := c.dc.FontHeight()

	c.setFont(false, tickFontSize)
	tickH := c.dc.FontHeight()
	var yTickW float64
	for _, t := range c.yTicks {
		w, _ := c.dc.MeasureString(t.Label)
		yTickW = math.Max(yTickW, w)
	}
	var lastXTickW float64
	if n := len(c.xTicks); n > 0 {
		lastXTickW, _ = c.dc.MeasureString(c.xTicks[n-1].Label)
	}

	c.top = pad + titleH + 2*gap
	c.left = pad + yTickW + gap + tick
	if c.spec.YLabel != "" {
		c.left += axisH + gap
	}
	c.bottom = H - (pad + tickH + gap + tick)
	if c.spec.XLabel != "" {
		c.bottom -= axisH + gap
	}
	c.right = W - pad - lastXTickW/2
}

func (c *ggCanvas) px(x float64) float64 {
	return c.left + (x-c.xr.Min)/c.xr.Span()*(c.right-c.left)
}

func (c *ggCanvas) py(y float64) float64 {
	return c.bottom - (y-c.yr.Min)/c.yr.Span()*(c.bottom-c.top)
}

func (c *ggCanvas) draw() {
	dc := c.dc
	dc.SetColor(figureBackground)
	dc.Clear()

	dc.SetColor(axesBackground)
	dc.DrawRectangle(c.left, c.top, c.right-c.left, c.bottom-c.top)
	dc.Fill()

	c.drawGrid()
	c.drawTicks()

	dc.DrawRectangle(c.left, c.top, c.right-c.left, c.bottom-c.top)
	dc.Clip()
	c.drawReferences()
	switch c.spec.Kind {
	case Line:
		c.drawLine()
	case Bar:
		c.drawBars()
	}
	dc.ResetClip()

	c.drawValueLabels()
	c.drawAnnotations()
	c.drawAxisLabels()
	c.drawTitle()
	if c.spec.hasLegend() {
		c.drawLegend()
	}
}

func (c *ggCanvas) drawGrid() {
	dc := c.dc
	dc.SetColor(gridColor)
	dc.SetLineWidth(c.pt(gridLineWidth))
	dc.SetDash()

	for _, t := range c.yTicks {
		y := c.py(t.Value)
		dc.DrawLine(c.left, y, c.right, y)
		dc.Stroke()
	}
	// Bar charts only get horizontal grid lines.
	if c.spec.Kind == Bar {
		return
	}
	for _, t := range c.xTicks {
		x := c.px(t.Value)
		dc.DrawLine(x, c.top, x, c.bottom)
		dc.Stroke()
	}
}

func (c *ggCanvas) drawTicks() {
	dc := c.dc
	tick, gap := c.pt(tickLength), c.pt(labelGap)
	c.setFont(false, tickFontSize)
	dc.SetLineWidth(c.pt(gridLineWidth))

	for _, t := range c.yTicks {
		y := c.py(t.Value)
		dc.SetColor(textColor)
		dc.DrawLine(c.left-tick, y, c.left, y)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, c.left-tick-gap/2, y, 1, 0.35)
	}
	for _, t := range c.xTicks {
		x := c.px(t.Value)
		dc.SetColor(textColor)
		dc.DrawLine(x, c.bottom, x, c.bottom+tick)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, x, c.bottom+tick+gap/2, 0.5, 1)
	}
}

func (c *ggCanvas) drawReferences() {
	dc := c.dc
	dc.SetLineWidth(c.pt(referenceLineWidth))
	dc.SetDash(c.pt(6), c.pt(3))
	defer dc.SetDash()

	if ref := c.spec.Reference; ref != nil {
		dc.SetColor(withAlpha(refColor(ref.Color), 0.5))
		xs := c.spec.xPositions()
		for i, y := range ref.Y {
			if i == 0 {
				dc.MoveTo(c.px(xs[i]), c.py(y))
			} else {
				dc.LineTo(c.px(xs[i]), c.py(y))
			}
			c.stats.ReferencePoints++
		}
		dc.Stroke()
	}
	if hl := c.spec.HLine; hl != nil {
		dc.SetColor(withAlpha(refColor(hl.Color), 0.5))
		y := c.py(hl.Y)
		dc.DrawLine(c.left, y, c.right, y)
		dc.Stroke()
		c.stats.ReferenceLines++
	}
}

func refColor(c color.Color) color.Color {
	if c == nil {
		return referenceGray
	}
	return c
}

func (c *ggCanvas) seriesColor() color.Color {
	if c.spec.Color == nil {
		return Palette[0]
	}
	return c.spec.Color
}

func (c *ggCanvas) drawLine() {
	dc := c.dc
	xs, ys := c.spec.xPositions(), c.spec.Data.Y

	dc.SetColor(c.seriesColor())
	dc.SetLineWidth(c.pt(seriesLineWidth))
	for i := 0; i < len(xs)-1; i++ {
		dc.DrawLine(c.px(xs[i]), c.py(ys[i]), c.px(xs[i+1]), c.py(ys[i+1]))
		dc.Stroke()
	}
	for i := range xs {
		dc.DrawCircle(c.px(xs[i]), c.py(ys[i]), c.pt(markerRadius))
		dc.Fill()
		c.stats.Points++
	}
}

// barRect returns the pixel rectangle of bar i.
func (c *ggCanvas) barRect(i int) (x, y, w, h float64) {
	half := barWidthFraction / 2
	x0, x1 := c.px(float64(i)-half), c.px(float64(i)+half)
	base := c.py(math.Max(c.yr.Min, 0))
	top := c.py(c.spec.Data.Y[i])
	return x0, math.Min(top, base), x1 - x0, math.Abs(base - top)
}

func (c *ggCanvas) drawBars() {
	dc := c.dc
	edge := c.spec.BarEdgeWidth
	for i := range c.spec.Data.Y {
		fill := c.seriesColor()
		if c.spec.BarColors != nil {
			fill = c.spec.BarColors[i]
		}
		x, y, w, h := c.barRect(i)
		dc.SetColor(withAlpha(fill, barAlpha))
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		if edge > 0 {
			dc.SetColor(color.Black)
			dc.SetLineWidth(c.pt(edge))
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
		}
		c.stats.Bars++
	}
}

// drawValueLabels writes each point's value just above it, centred.
func (c *ggCanvas) drawValueLabels() {
	if c.spec.ValueFormat == "" {
		return
	}
	dc := c.dc
	size := c.spec.ValueLabelSize
	if size == 0 {
		size = defaultValueSize
	}
	c.setFont(true, size)
	dc.SetColor(textColor)

	xs := c.spec.xPositions()
	gap := c.pt(2)
	for i, y := range c.spec.Data.Y {
		label := c.spec.ValueLabel(i)
		x, top := c.px(xs[i]), c.py(y)
		if c.spec.Kind == Line {
			top -= c.pt(markerRadius)
		}
		dc.DrawStringAnchored(label, x, top-gap, 0.5, 0)
		c.stats.ValueLabels = append(c.stats.ValueLabels, label)
	}
}

func (c *ggCanvas) drawAnnotations() {
	dc := c.dc
	for _, a := range c.spec.Annotations {
		col := a.Color
		if col == nil {
			col = textColor
		}
		tx, ty := c.px(a.X), c.py(a.Y)
		hx, hy := c.px(a.ArrowX), c.py(a.ArrowY)

		dc.SetColor(col)
		dc.SetLineWidth(c.pt(arrowLineWidth))
		dc.DrawLine(tx, ty, hx, hy)
		dc.Stroke()

		// Open "->" head.
		angle := math.Atan2(hy-ty, hx-tx)
		l := c.pt(arrowHeadLength)
		for _, side := range []float64{-1, 1} {
			theta := angle + side*gg.Radians(25)
			dc.DrawLine(hx, hy, hx-l*math.Cos(theta), hy-l*math.Sin(theta))
			dc.Stroke()
		}

		c.setFont(true, annotationSize)
		dc.DrawStringAnchored(a.Text, tx, ty-c.pt(2), 0.5, 0)
		c.stats.Annotations = append(c.stats.Annotations, a.Text)
	}
}

func (c *ggCanvas) drawAxisLabels() {
	dc := c.dc
	pad := c.pt(outerPadding)
	c.setFont(true, axisLabelFontSize)
	dc.SetColor(textColor)

	if c.spec.XLabel != "" {
		dc.DrawStringAnchored(c.spec.XLabel, (c.left+c.right)/2, float64(dc.Height())-pad, 0.5, 0)
	}
	if c.spec.YLabel != "" {
		x := pad + dc.FontHeight()/2
		y := (c.top + c.bottom) / 2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(c.spec.YLabel, x, y, 0.5, 0.35)
		dc.Pop()
	}
}

func (c *ggCanvas) drawTitle() {
	c.setFont(true, titleFontSize)
	c.dc.SetColor(textColor)
	c.dc.DrawStringAnchored(c.spec.Title, (c.left+c.right)/2, c.top-c.pt(labelGap), 0.5, 0)
}

type legendEntry struct {
	label  string
	color  color.Color
	dashed bool
	marker bool
}

func (c *ggCanvas) legendEntries() []legendEntry {
	var entries []legendEntry
	if c.spec.SeriesLabel != "" {
		entries = append(entries, legendEntry{label: c.spec.SeriesLabel, color: c.seriesColor(), marker: c.spec.Kind == Line})
	}
	if ref := c.spec.Reference; ref != nil && ref.Label != "" {
		entries = append(entries, legendEntry{label: ref.Label, color: withAlpha(refColor(ref.Color), 0.5), dashed: true})
	}
	if hl := c.spec.HLine; hl != nil && hl.Label != "" {
		entries = append(entries, legendEntry{label: hl.Label, color: withAlpha(refColor(hl.Color), 0.5), dashed: true})
	}
	return entries
}

// drawLegend puts the legend in the corner of the plot area covering the
// fewest data points.
func (c *ggCanvas) drawLegend() {
	dc := c.dc
	entries := c.legendEntries()
	c.setFont(false, legendFontSize)

	pad, sample := c.pt(6), c.pt(24)
	rowH := dc.FontHeight() * 1.5
	var textW float64
	for _, e := range entries {
		w, _ := dc.MeasureString(e.label)
		textW = math.Max(textW, w)
	}
	boxW := pad + sample + pad + textW + pad
	boxH := pad + rowH*float64(len(entries)) + pad
	bx, by := c.legendCorner(boxW, boxH)

	dc.SetColor(withAlpha(color.White, 0.8))
	dc.DrawRoundedRectangle(bx, by, boxW, boxH, c.pt(3))
	dc.Fill()
	dc.SetColor(hex("#CCCCCC"))
	dc.SetLineWidth(c.pt(0.8))
	dc.DrawRoundedRectangle(bx, by, boxW, boxH, c.pt(3))
	dc.Stroke()

	for i, e := range entries {
		cy := by + pad + rowH*(float64(i)+0.5)
		x0 := bx + pad
		dc.SetColor(e.color)
		dc.SetLineWidth(c.pt(seriesLineWidth))
		if e.dashed {
			dc.SetDash(c.pt(6), c.pt(3))
		}
		dc.DrawLine(x0, cy, x0+sample, cy)
		dc.Stroke()
		dc.SetDash()
		if e.marker {
			dc.DrawCircle(x0+sample/2, cy, c.pt(markerRadius))
			dc.Fill()
		}
		dc.SetColor(textColor)
		dc.DrawStringAnchored(e.label, x0+sample+pad, cy, 0, 0.35)
		c.stats.LegendEntries = append(c.stats.LegendEntries, e.label)
	}
}

func (c *ggCanvas) legendCorner(w, h float64) (x, y float64) {
	inset := c.pt(8)
	corners := [][2]float64{
		{c.left + inset, c.top + inset},
		{c.right - inset - w, c.top + inset},
		{c.left + inset, c.bottom - inset - h},
		{c.right - inset - w, c.bottom - inset - h},
	}

	var pts [][2]float64
	xs := c.spec.xPositions()
	for i, y := range c.spec.Data.Y {
		pts = append(pts, [2]float64{c.px(xs[i]), c.py(y)})
	}
	if ref := c.spec.Reference; ref != nil {
		for i, y := range ref.Y {
			pts = append(pts, [2]float64{c.px(xs[i]), c.py(y)})
		}
	}
	if hl := c.spec.HLine; hl != nil {
		y := c.py(hl.Y)
		for _, cx := range []float64{c.left, (c.left + c.right) / 2, c.right} {
			pts = append(pts, [2]float64{cx, y})
		}
	}

	best, bestCount := 0, math.MaxInt
	margin := c.pt(markerRadius)
	for i, corner := range corners {
		n := 0
		for _, p := range pts {
			if p[0] >= corner[0]-margin && p[0] <= corner[0]+w+margin &&
				p[1] >= corner[1]-margin && p[1] <= corner[1]+h+margin {
				n++
			}
		}
		if n < bestCount {
			best, bestCount = i, n
		}
	}
	return corners[best][0], corners[best][1]
}
