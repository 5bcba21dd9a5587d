package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/swatches/internal/color"
)

func (s *Server) registerColorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "convertColor",
		Method:      http.MethodPost,
		Path:        "/api/v1/colors/convert",
		Summary:     "Convert a color code",
		Description: "Parses one hex code and returns its RGB, HSL, display value and readable text color",
		Tags:        []string{"Colors"},
	}, s.handleConvertColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "formatColors",
		Method:      http.MethodPost,
		Path:        "/api/v1/colors/format",
		Summary:     "Format multi-code input",
		Description: "Cleans multi-code text the way the input field does and previews the colors it would apply",
		Tags:        []string{"Colors"},
	}, s.handleFormatColors)
}

// === DTOs ===

// ColorDetails describes one parsed color.
type ColorDetails struct {
	Hex        string    `json:"hex" doc:"Lowercase #rrggbb form" example:"#aabbcc"`
	RGB        color.RGB `json:"rgb" doc:"8-bit channels"`
	HSL        color.HSL `json:"hsl" doc:"Hue in degrees, saturation and lightness in percent"`
	Value      string    `json:"value" doc:"Display value stored on palette entries" example:"#aabbcc (rgb(170, 187, 204), hsl(210, 25%, 73%))"`
	TextColor  string    `json:"text_color" doc:"Readable text color on this background" example:"#333"`
	Brightness float64   `json:"brightness" doc:"Perceived brightness, 0-255"`
}

func newColorDetails(c color.Color) ColorDetails {
	return ColorDetails{
		Hex:        c.Hex(),
		RGB:        c.RGB,
		HSL:        c.HSL(),
		Value:      c.Value(),
		TextColor:  c.TextColor(),
		Brightness: color.Brightness(c.RGB),
	}
}

// ConvertColorRequest is the request body for converting a code.
type ConvertColorRequest struct {
	Code string `json:"code" validate:"required,max=256" doc:"Hex code, with or without #, 3 or 6 digits" example:"#abc"`
}

// ConvertColorInput wraps the convert request for Huma.
type ConvertColorInput struct {
	Body ConvertColorRequest
}

// ColorOutput wraps color details for Huma.
type ColorOutput struct {
	Body ColorDetails
}

// FormatColorsRequest is the request body for formatting multi-code input.
type FormatColorsRequest struct {
	Input string `json:"input" validate:"max=16384" doc:"Raw multi-code text" example:"#fff, 123456"`
}

// FormatColorsInput wraps the format request for Huma.
type FormatColorsInput struct {
	Body FormatColorsRequest
}

// FormatColorsResponse previews what applying the input would do.
type FormatColorsResponse struct {
	Formatted string         `json:"formatted" doc:"Input as the field shows it after cleaning"`
	Codes     []string       `json:"codes" doc:"Candidate tokens in order"`
	Colors    []ColorDetails `json:"colors" doc:"Valid colors in order"`
	Dropped   int            `json:"dropped" doc:"Candidates that are not colors"`
}

// FormatColorsOutput wraps the format response for Huma.
type FormatColorsOutput struct {
	Body FormatColorsResponse
}

// === Handlers ===

func (s *Server) handleConvertColor(_ context.Context, input *ConvertColorInput) (*ColorOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	c, ok := color.NormalizeOne(input.Body.Code)
	if !ok {
		// Re-parse for the domain error carrying the rejected input.
		_, err := color.ParseHex(input.Body.Code)
		return nil, err
	}

	return &ColorOutput{Body: newColorDetails(c)}, nil
}

func (s *Server) handleFormatColors(_ context.Context, input *FormatColorsInput) (*FormatColorsOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	codes := color.SplitCodes(input.Body.Input)
	colors := color.Normalize(input.Body.Input)

	details := make([]ColorDetails, len(colors))
	for i, c := range colors {
		details[i] = newColorDetails(c)
	}

	return &FormatColorsOutput{
		Body: FormatColorsResponse{
			Formatted: color.FormatInput(input.Body.Input),
			Codes:     codes,
			Colors:    details,
			Dropped:   len(codes) - len(colors),
		},
	}, nil
}
