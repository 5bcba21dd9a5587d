package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/swatches/internal/color"
	"github.com/listenupapp/swatches/internal/media/swatch"
	"github.com/listenupapp/swatches/internal/palette"
	"github.com/listenupapp/swatches/internal/service"
)

func (s *Server) registerPaletteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/palette",
		Summary:     "Get palette",
		Description: "Returns the session's swatches in display order with its preferences",
		Tags:        []string{"Palette"},
	}, s.handleGetPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetPalette",
		Method:      http.MethodDelete,
		Path:        "/api/v1/palette",
		Summary:     "Reset palette",
		Description: "Drops every swatch and restores the default preferences",
		Tags:        []string{"Palette"},
	}, s.handleResetPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyColor",
		Method:      http.MethodPost,
		Path:        "/api/v1/palette/colors",
		Summary:     "Apply a color",
		Description: "Appends the color in the single-code field. Input with no usable color is dropped",
		Tags:        []string{"Palette"},
	}, s.handleApplyColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyColors",
		Method:      http.MethodPost,
		Path:        "/api/v1/palette/colors/batch",
		Summary:     "Apply many colors",
		Description: "Appends every valid color in multi-code text, in input order",
		Tags:        []string{"Palette"},
	}, s.handleApplyColors)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceColor",
		Method:      http.MethodPut,
		Path:        "/api/v1/palette/colors/{id}",
		Summary:     "Edit a color",
		Description: "Replaces a swatch's color in place, keeping its id and position",
		Tags:        []string{"Palette"},
	}, s.handleReplaceColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteColor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/palette/colors/{id}",
		Summary:     "Delete a color",
		Description: "Removes a swatch. Clears the selection if it pointed at this swatch",
		Tags:        []string{"Palette"},
	}, s.handleDeleteColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectColor",
		Method:      http.MethodPut,
		Path:        "/api/v1/palette/selection",
		Summary:     "Select a color",
		Description: "Marks a swatch as selected for editing",
		Tags:        []string{"Palette"},
	}, s.handleSelectColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSelection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/palette/selection",
		Summary:     "Clear selection",
		Tags:        []string{"Palette"},
	}, s.handleClearSelection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPatch,
		Path:        "/api/v1/palette/preferences",
		Summary:     "Update preferences",
		Description: "Sets the theme and whether swatches show their values. Omitted fields are kept",
		Tags:        []string{"Palette"},
	}, s.handleUpdatePreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleTheme",
		Method:      http.MethodPost,
		Path:        "/api/v1/palette/theme/toggle",
		Summary:     "Toggle theme",
		Tags:        []string{"Palette"},
	}, s.handleToggleTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleValues",
		Method:      http.MethodPost,
		Path:        "/api/v1/palette/values/toggle",
		Summary:     "Toggle value display",
		Tags:        []string{"Palette"},
	}, s.handleToggleValues)
}

// === DTOs ===

// SwatchResponse is one palette entry with its parsed color.
type SwatchResponse struct {
	ID        string    `json:"id" doc:"Entry ID" example:"color-V1StGXR8_Z5jdHi6B"`
	Value     string    `json:"value" doc:"Display value"`
	Hex       string    `json:"hex" doc:"Lowercase #rrggbb form"`
	RGB       color.RGB `json:"rgb" doc:"8-bit channels"`
	HSL       color.HSL `json:"hsl" doc:"Hue, saturation and lightness"`
	TextColor string    `json:"text_color" doc:"Readable text color on this swatch"`
	Selected  bool      `json:"selected" doc:"Whether this swatch is being edited"`
}

// PaletteResponse is a session's palette as the page renders it.
type PaletteResponse struct {
	Theme      palette.Theme    `json:"theme" enum:"light,dark" doc:"Page theme"`
	ShowValues bool             `json:"show_values" doc:"Whether swatches show their values"`
	SelectedID string           `json:"selected_id,omitempty" doc:"Selected entry ID"`
	BlurHash   string           `json:"blurhash,omitempty" doc:"BlurHash of the palette strip"`
	Swatches   []SwatchResponse `json:"swatches" doc:"Swatches in display order"`
}

// PaletteOutput wraps a palette for Huma.
type PaletteOutput struct {
	Body PaletteResponse
}

// ApplyColorRequest is the request body for the single-code field.
type ApplyColorRequest struct {
	Code string `json:"code" validate:"max=256" doc:"Hex code" example:"#abc"`
}

// ApplyColorInput wraps the apply request for Huma.
type ApplyColorInput struct {
	Body ApplyColorRequest
}

// ApplyColorsRequest is the request body for the multi-code field.
type ApplyColorsRequest struct {
	Codes string `json:"codes" validate:"max=16384" doc:"Multi-code text" example:"#fff, 123456 abcdef"`
}

// ApplyColorsInput wraps the batch apply request for Huma.
type ApplyColorsInput struct {
	Body ApplyColorsRequest
}

// ApplyResponse reports what an apply added.
type ApplyResponse struct {
	Added   []SwatchResponse `json:"added" doc:"New swatches in order"`
	Dropped int              `json:"dropped" doc:"Candidates discarded as invalid"`
	Palette PaletteResponse  `json:"palette" doc:"Palette after the change"`
}

// ApplyOutput wraps the apply response for Huma.
type ApplyOutput struct {
	Body ApplyResponse
}

// ReplaceColorRequest is the request body for an in-place edit.
type ReplaceColorRequest struct {
	Value string `json:"value" validate:"max=256" doc:"Hex code or full display value" example:"#aabbcc"`
}

// ReplaceColorInput wraps the edit request for Huma.
type ReplaceColorInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body ReplaceColorRequest
}

// ReplaceColorResponse reports the edited swatch.
type ReplaceColorResponse struct {
	Swatch  SwatchResponse  `json:"swatch" doc:"Swatch after the edit"`
	Changed bool            `json:"changed" doc:"False when the value held no usable color"`
	Palette PaletteResponse `json:"palette" doc:"Palette after the change"`
}

// ReplaceColorOutput wraps the edit response for Huma.
type ReplaceColorOutput struct {
	Body ReplaceColorResponse
}

// DeleteColorInput identifies the swatch to delete.
type DeleteColorInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

// DeleteColorResponse reports the removed swatch.
type DeleteColorResponse struct {
	DeletedID        string          `json:"deleted_id" doc:"Removed entry ID"`
	SelectionCleared bool            `json:"selection_cleared" doc:"Whether the removed swatch was selected"`
	Palette          PaletteResponse `json:"palette" doc:"Palette after the change"`
}

// DeleteColorOutput wraps the delete response for Huma.
type DeleteColorOutput struct {
	Body DeleteColorResponse
}

// SelectColorRequest is the request body for selecting a swatch.
type SelectColorRequest struct {
	ID string `json:"id" validate:"required,entry_id" doc:"Entry ID"`
}

// SelectColorInput wraps the select request for Huma.
type SelectColorInput struct {
	Body SelectColorRequest
}

// UpdatePreferencesRequest is the request body for a preferences change.
type UpdatePreferencesRequest struct {
	Theme      *string `json:"theme,omitempty" validate:"omitempty,theme" doc:"light or dark"`
	ShowValues *bool   `json:"show_values,omitempty" doc:"Whether swatches show their values"`
}

// UpdatePreferencesInput wraps the preferences request for Huma.
type UpdatePreferencesInput struct {
	Body UpdatePreferencesRequest
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleGetPalette(ctx context.Context, _ *struct{}) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.palette.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

func (s *Server) handleResetPalette(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.palette.Reset(ctx, sid); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Palette reset"}}, nil
}

func (s *Server) handleApplyColor(ctx context.Context, input *ApplyColorInput) (*ApplyOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.palette.ApplyColor(ctx, sid, input.Body.Code)
	if err != nil {
		return nil, err
	}
	return &ApplyOutput{Body: s.newApplyResponse(result)}, nil
}

func (s *Server) handleApplyColors(ctx context.Context, input *ApplyColorsInput) (*ApplyOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.palette.ApplyColors(ctx, sid, input.Body.Codes)
	if err != nil {
		return nil, err
	}
	return &ApplyOutput{Body: s.newApplyResponse(result)}, nil
}

func (s *Server) handleReplaceColor(ctx context.Context, input *ReplaceColorInput) (*ReplaceColorOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.palette.ReplaceColor(ctx, sid, input.ID, input.Body.Value)
	if err != nil {
		return nil, err
	}

	selected, _ := result.State.Colors.Selected()
	return &ReplaceColorOutput{
		Body: ReplaceColorResponse{
			Swatch:  newSwatchResponse(result.Entry, result.Entry.ID == selected.ID),
			Changed: result.Changed,
			Palette: s.newPaletteResponse(result.State),
		},
	}, nil
}

func (s *Server) handleDeleteColor(ctx context.Context, input *DeleteColorInput) (*DeleteColorOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.palette.DeleteColor(ctx, sid, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteColorOutput{
		Body: DeleteColorResponse{
			DeletedID:        result.Entry.ID,
			SelectionCleared: result.SelectionCleared,
			Palette:          s.newPaletteResponse(result.State),
		},
	}, nil
}

func (s *Server) handleSelectColor(ctx context.Context, input *SelectColorInput) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	state, err := s.palette.Select(ctx, sid, input.Body.ID)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

func (s *Server) handleClearSelection(ctx context.Context, _ *struct{}) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.palette.ClearSelection(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var update service.PreferencesUpdate
	if input.Body.Theme != nil {
		theme := palette.Theme(*input.Body.Theme)
		update.Theme = &theme
	}
	update.ShowValues = input.Body.ShowValues

	state, err := s.palette.UpdatePreferences(ctx, sid, update)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

func (s *Server) handleToggleTheme(ctx context.Context, _ *struct{}) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.palette.ToggleTheme(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

func (s *Server) handleToggleValues(ctx context.Context, _ *struct{}) (*PaletteOutput, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.palette.ToggleValues(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &PaletteOutput{Body: s.newPaletteResponse(state)}, nil
}

// === Conversions ===

func newSwatchResponse(entry palette.Entry, selected bool) SwatchResponse {
	// Stored values come from color.Value and always parse.
	c, _ := color.ParseValue(entry.Value)
	return SwatchResponse{
		ID:        entry.ID,
		Value:     entry.Value,
		Hex:       c.Hex(),
		RGB:       c.RGB,
		HSL:       c.HSL(),
		TextColor: c.TextColor(),
		Selected:  selected,
	}
}

func (s *Server) newPaletteResponse(state *palette.State) PaletteResponse {
	selected, _ := state.Colors.Selected()
	resp := PaletteResponse{
		Theme:      state.Theme,
		ShowValues: state.ShowValues,
		SelectedID: selected.ID,
		Swatches:   make([]SwatchResponse, 0, state.Colors.Len()),
	}
	for entry := range state.Colors.All() {
		resp.Swatches = append(resp.Swatches, newSwatchResponse(entry, entry.ID == selected.ID))
	}
	resp.BlurHash = s.paletteBlurHash(state)
	return resp
}

func (s *Server) newApplyResponse(result *service.ApplyResult) ApplyResponse {
	added := make([]SwatchResponse, len(result.Added))
	for i, entry := range result.Added {
		added[i] = newSwatchResponse(entry, false)
	}
	return ApplyResponse{
		Added:   added,
		Dropped: result.Dropped,
		Palette: s.newPaletteResponse(result.State),
	}
}

// paletteBlurHash returns the placeholder hash for the palette strip. A
// failure only costs the placeholder, so it is logged and dropped.
func (s *Server) paletteBlurHash(state *palette.State) string {
	hash, err := swatch.BlurHash(paletteColors(state))
	if err != nil {
		s.logger.Warn("failed to compute palette blurhash", "error", err)
		return ""
	}
	return hash
}

// paletteColors parses every entry of the palette in display order.
func paletteColors(state *palette.State) []color.Color {
	colors := make([]color.Color, 0, state.Colors.Len())
	for entry := range state.Colors.All() {
		c, err := color.ParseValue(entry.Value)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	return colors
}
