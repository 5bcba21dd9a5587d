package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/swatches/internal/color"
)

func TestConvertColor(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tests := []struct {
		name      string
		code      string
		hex       string
		hsl       color.HSL
		textColor string
	}{
		{name: "short form expands", code: "#abc", hex: "#aabbcc", hsl: color.HSL{H: 210, S: 25, L: 73}, textColor: "#333"},
		{name: "no hash", code: "FF0000", hex: "#ff0000", hsl: color.HSL{H: 0, S: 100, L: 50}, textColor: "#e9e9e9"},
		{name: "stray characters ignored", code: " #123456;", hex: "#123456", hsl: color.HSL{H: 210, S: 65, L: 20}, textColor: "#e9e9e9"},
		{name: "white", code: "fff", hex: "#ffffff", hsl: color.HSL{H: 0, S: 0, L: 100}, textColor: "#333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/colors/convert", ConvertColorRequest{Code: tt.code})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			details := decodeData[ColorDetails](t, resp)
			assert.Equal(t, tt.hex, details.Hex)
			assert.Equal(t, tt.hsl, details.HSL)
			assert.Equal(t, tt.textColor, details.TextColor)
			assert.Equal(t, color.MustParseHex(tt.code).Value(), details.Value)
		})
	}
}

func TestConvertColor_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/colors/convert", ConvertColorRequest{Code: "#1z2"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "INVALID_COLOR", env.Code)
}

func TestConvertColor_MissingCode(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/colors/convert", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope(t, resp).Code)
}

func TestFormatColors(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/colors/format", FormatColorsRequest{Input: "#fff,zz 123456abcdef"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decodeData[FormatColorsResponse](t, resp)
	assert.Equal(t, "fff 123456,abcdef", out.Formatted)
	assert.Equal(t, []string{"fff", "123456", "abcdef"}, out.Codes)
	require.Len(t, out.Colors, 3)
	assert.Equal(t, "#ffffff", out.Colors[0].Hex)
	assert.Equal(t, "#abcdef", out.Colors[2].Hex)
	assert.Equal(t, 0, out.Dropped)
}

func TestFormatColors_ReportsDropped(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/colors/format", FormatColorsRequest{Input: "12 abc"})
	require.Equal(t, http.StatusOK, resp.Code)

	out := decodeData[FormatColorsResponse](t, resp)
	assert.Equal(t, []string{"12", "abc"}, out.Codes)
	assert.Len(t, out.Colors, 1)
	assert.Equal(t, 1, out.Dropped)
}

func TestFormatColors_EmptyInput(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/colors/format", FormatColorsRequest{Input: ""})
	require.Equal(t, http.StatusOK, resp.Code)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Equal(t, "", env.Data["formatted"])
	assert.Empty(t, env.Data["codes"])
}
