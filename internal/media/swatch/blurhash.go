package swatch

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"

	"github.com/listenupapp/swatches/internal/color"
)

// blurHashSize is the target size for BlurHash computation.
// A small thumbnail gives nearly identical hashes at a fraction of the cost.
const blurHashSize = 64

// BlurHash returns a BlurHash placeholder for the palette strip, or "" for an
// empty palette. Uses 4x3 components, about 28 characters.
func BlurHash(colors []color.Color) (string, error) {
	if len(colors) == 0 {
		return "", nil
	}
	if len(colors) > MaxDimension {
		colors = colors[:MaxDimension]
	}

	strip, err := Strip(colors, max(DefaultWidth, len(colors)), DefaultHeight)
	if err != nil {
		return "", err
	}
	return ImageBlurHash(strip)
}

// ImageBlurHash computes the BlurHash of img after shrinking it to a thumbnail.
func ImageBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, resizeForBlurHash(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// resizeForBlurHash scales img down with nearest-neighbor sampling, keeping
// the aspect ratio. Images already small enough are returned as is.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = max(srcHeight*blurHashSize/srcWidth, 1)
	} else {
		dstHeight = blurHashSize
		dstWidth = max(srcWidth*blurHashSize/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := range dstHeight {
		for x := range dstWidth {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return dst
}
