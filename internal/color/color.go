// Package color parses free-form hex color input and derives the RGB, HSL
// and contrast text representations shown on a swatch.
package color

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
)

// ErrInvalidCode is returned when a candidate lacks three contiguous hex digits.
var ErrInvalidCode = domainerrors.ErrInvalidColor

var (
	contiguousHex = regexp.MustCompile(`[0-9A-Fa-f]{3}`)
	nonHex        = regexp.MustCompile(`[^0-9A-Fa-f]`)
)

// RGB is a color as 8-bit red, green and blue channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the lowercase #rrggbb form. The input's case is not kept.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the CSS functional form, e.g. "rgb(170, 187, 204)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Color is a parsed color code.
type Color struct {
	RGB
}

// ParseHex parses a 3 or 6 digit hex code. A leading '#' and stray non-hex
// characters are ignored. Three digits expand by duplication ("abc" becomes
// "aabbcc"); four or five keep the first three; more than six are truncated.
func ParseHex(code string) (Color, error) {
	if !contiguousHex.MatchString(code) {
		return Color{}, domainerrors.InvalidColor(code)
	}

	digits := nonHex.ReplaceAllString(code, "")
	if len(digits) >= 6 {
		digits = digits[:6]
	} else {
		digits = expand(digits[:3])
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, domainerrors.InvalidColor(code).WithCause(err)
	}
	return Color{RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}}, nil
}

// MustParseHex is like ParseHex but panics on invalid input.
func MustParseHex(code string) Color {
	c, err := ParseHex(code)
	if err != nil {
		panic(err)
	}
	return c
}

func expand(short string) string {
	var b strings.Builder
	b.Grow(6)
	for _, r := range short {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String()
}

// Value returns the display value stored on a palette entry:
// "#rrggbb (rgb(R, G, B), hsl(H, S%, L%))".
func (c Color) Value() string {
	return fmt.Sprintf("%s (%s, %s)", c.Hex(), c.RGB, c.HSL())
}

// TextColor returns the text color readable on top of c.
func (c Color) TextColor() string {
	return TextColor(c.RGB)
}

// ParseValue recovers a Color from a display value produced by Value.
// Only the leading hex token is read.
func ParseValue(value string) (Color, error) {
	token, _, _ := strings.Cut(strings.TrimSpace(value), " ")
	return ParseHex(token)
}
