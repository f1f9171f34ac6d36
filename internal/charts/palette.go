package charts

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Series colours, in chart order.
var (
	Blue      = hex("#2E86AB")
	Magenta   = hex("#A23B72")
	Orange    = hex("#F18F01")
	Red       = hex("#C73E1D")
	Green     = hex("#6A994E")
	LightLeaf = hex("#90BE6D")

	Palette = []color.Color{Blue, Magenta, Orange, Red, Green}
)

var (
	figureBackground = color.White
	axesBackground   = hex("#EAEAF2")
	gridColor        = color.White
	textColor        = hex("#262626")
	referenceGray    = hex("#808080")
	annotationGreen  = hex("#008000")
)

func hex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("charts: bad colour " + s + ": " + err.Error())
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// withAlpha returns c with its opacity scaled to a in [0, 1].
func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}
