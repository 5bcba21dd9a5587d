// Package swatch renders colors as PNG images: a single labeled swatch and a
// horizontal strip of a whole palette.
package swatch

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/listenupapp/swatches/internal/color"
)

// Default dimensions match the swatch boxes drawn by the page.
const (
	DefaultWidth  = 400
	DefaultHeight = 100

	// MaxDimension caps requested image sides.
	MaxDimension = 2048

	labelPadding = 8
)

// ErrInvalidSize is returned for non-positive or oversized dimensions.
var ErrInvalidSize = errors.New("invalid swatch size")

var labelFace = basicfont.Face7x13

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return nil
}

// RGBA converts c to an opaque image color.
func RGBA(c color.RGB) stdcolor.RGBA {
	return stdcolor.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Render paints a w×h swatch of c. A non-empty label is drawn left aligned and
// vertically centered in the swatch's text color, cut short with "..." when it
// does not fit.
func Render(c color.Color, w, h int, label string) (*image.RGBA, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(RGBA(c.RGB)), image.Point{}, draw.Src)

	if label != "" {
		drawLabel(img, c, fitLabel(label, w-2*labelPadding))
	}
	return img, nil
}

func drawLabel(img *image.RGBA, c color.Color, label string) {
	if label == "" {
		return
	}
	text := color.MustParseHex(c.TextColor())

	metrics := labelFace.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baseline := (img.Bounds().Dy()+ascent-descent)/2 + 1

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(RGBA(text.RGB)),
		Face: labelFace,
		Dot:  fixed.P(labelPadding, baseline),
	}
	d.DrawString(label)
}

// fitLabel shortens label until it fits in maxWidth pixels.
func fitLabel(label string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if font.MeasureString(labelFace, label).Ceil() <= maxWidth {
		return label
	}

	const ellipsis = "..."
	runes := []rune(label)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if font.MeasureString(labelFace, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return ""
}

// Strip paints colors as equal vertical bands across a w×h image, in order.
// An empty palette yields a transparent image.
func Strip(colors []color.Color, w, h int) (*image.RGBA, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	n := len(colors)
	if n == 0 {
		return img, nil
	}
	if n > w {
		return nil, fmt.Errorf("%w: %d colors do not fit in %d pixels", ErrInvalidSize, n, w)
	}

	for i, c := range colors {
		band := image.Rect(i*w/n, 0, (i+1)*w/n, h)
		draw.Draw(img, band, image.NewUniform(RGBA(c.RGB)), image.Point{}, draw.Src)
	}
	return img, nil
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
