package color

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL is a color as hue in degrees [0,360) and saturation and lightness in
// percent [0,100], each rounded to the nearest integer.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// String returns the CSS functional form, e.g. "hsl(210, 25%, 73%)".
func (h HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h.H, h.S, h.L)
}

// HSL converts c using the min/max channel formula. Grays have zero hue and
// saturation.
func (c RGB) HSL() HSL {
	cf := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	if c.R == c.G && c.G == c.B {
		return HSL{L: percent(cf.R)}
	}

	_, s, l := cf.Hsl()
	return HSL{
		H: hue(cf.R, cf.G, cf.B),
		S: percent(s),
		L: percent(l),
	}
}

// hue returns the hue in whole degrees. The sector is scaled to a turn before
// degrees so that values landing a hair under .5 round down; colorful's 60*x
// lands exactly on the tie for some inputs and rounds up.
func hue(r, g, b float64) int {
	hi := math.Max(r, math.Max(g, b))
	d := hi - math.Min(r, math.Min(g, b))

	var sector float64
	switch hi {
	case r:
		sector = (g - b) / d
		if g < b {
			sector += 6
		}
	case g:
		sector = (b-r)/d + 2
	default:
		sector = (r-g)/d + 4
	}

	deg := int(math.Floor(sector/6*360 + 0.5))
	if deg == 360 {
		return 0
	}
	return deg
}

// RGB converts h back to 8-bit channels. Out of range components are clamped.
func (h HSL) RGB() RGB {
	hue := math.Mod(float64(h.H), 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsl(hue, clampUnit(float64(h.S)/100), clampUnit(float64(h.L)/100)).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

func percent(v float64) int {
	return int(math.Round(clampUnit(v) * 100))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
