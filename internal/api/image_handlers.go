package api

import (
	"bytes"
	"context"
	"image"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/swatches/internal/color"
	"github.com/listenupapp/swatches/internal/media/swatch"
)

const contentTypePNG = "image/png"

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSwatchImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/colors/{hex}/swatch.png",
		Summary:     "Render a swatch",
		Description: "Renders one color as a PNG, optionally labelled with its value in the readable text color",
		Tags:        []string{"Images"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{contentTypePNG: {}}},
		},
	}, s.handleGetSwatchImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPaletteStrip",
		Method:      http.MethodGet,
		Path:        "/api/v1/palette/strip.png",
		Summary:     "Render the palette strip",
		Description: "Renders the session's colors as equal vertical bands in display order",
		Tags:        []string{"Images"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{contentTypePNG: {}}},
		},
	}, s.handleGetPaletteStrip)
}

// === DTOs ===

// GetSwatchImageInput selects the color and size of a swatch image.
type GetSwatchImageInput struct {
	Hex    string `path:"hex" maxLength:"16" doc:"Hex code without #" example:"aabbcc"`
	Width  int    `query:"w" minimum:"1" maximum:"2048" default:"400" doc:"Image width in pixels"`
	Height int    `query:"h" minimum:"1" maximum:"2048" default:"100" doc:"Image height in pixels"`
	Label  bool   `query:"label" doc:"Draw the display value on the swatch"`
}

// GetPaletteStripInput selects the size of the palette strip.
type GetPaletteStripInput struct {
	Width  int `query:"w" minimum:"1" maximum:"2048" default:"400" doc:"Image width in pixels"`
	Height int `query:"h" minimum:"1" maximum:"2048" default:"100" doc:"Image height in pixels"`
}

// ImageOutput is a raw PNG response.
type ImageOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// === Handlers ===

func (s *Server) handleGetSwatchImage(_ context.Context, input *GetSwatchImageInput) (*ImageOutput, error) {
	c, err := color.ParseHex(input.Hex)
	if err != nil {
		return nil, err
	}

	var label string
	if input.Label {
		label = c.Value()
	}

	img, err := swatch.Render(c, input.Width, input.Height, label)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	body, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	// A code always renders the same image.
	return &ImageOutput{ContentType: contentTypePNG, CacheControl: CacheOneDay, Body: body}, nil
}

func (s *Server) handleGetPaletteStrip(ctx context.Context, input *GetPaletteStripInput) (*ImageOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.palette.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	img, err := swatch.Strip(paletteColors(state), input.Width, input.Height)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	body, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return &ImageOutput{ContentType: contentTypePNG, CacheControl: CacheNoStore, Body: body}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := swatch.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
