package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrightness(t *testing.T) {
	assert.InDelta(t, 0.0, Brightness(RGB{0, 0, 0}), 1e-9)
	assert.InDelta(t, 255.0, Brightness(RGB{255, 255, 255}), 1e-9)
	assert.InDelta(t, 76.245, Brightness(RGB{255, 0, 0}), 1e-9)
	assert.InDelta(t, 183.855, Brightness(RGB{170, 187, 204}), 1e-9)
}

func TestTextColor(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{"black gets light text", RGB{0, 0, 0}, LightText},
		{"white gets dark text", RGB{255, 255, 255}, DarkText},
		{"threshold is dark text", RGB{128, 128, 128}, DarkText},
		{"just below threshold", RGB{127, 127, 127}, LightText},
		{"blue is dark", RGB{0, 0, 255}, LightText},
		{"green is light", RGB{0, 255, 0}, DarkText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextColor(tt.rgb))
		})
	}
}

func TestColor_TextColor(t *testing.T) {
	assert.Equal(t, LightText, MustParseHex("#000").TextColor())
	assert.Equal(t, DarkText, MustParseHex("#fff").TextColor())
}
