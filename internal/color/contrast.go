package color

// Text colors chosen by TextColor.
const (
	LightText = "#e9e9e9"
	DarkText  = "#333"
)

// BrightnessThreshold separates dark backgrounds from light ones.
const BrightnessThreshold = 128

// Brightness returns the perceived brightness of c on a 0-255 scale.
func Brightness(c RGB) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}

// TextColor returns LightText for dark backgrounds and DarkText otherwise.
func TextColor(c RGB) string {
	if Brightness(c) < BrightnessThreshold {
		return LightText
	}
	return DarkText
}
