package web

import (
	"github.com/listenupapp/swatches/internal/color"
	"github.com/listenupapp/swatches/internal/palette"
)

// Swatch is one palette entry as the page draws it.
type Swatch struct {
	ID        string
	Value     string
	Hex       string
	TextColor string
	Selected  bool
}

// PageData is the initial state rendered into the page. The script takes
// over from there.
type PageData struct {
	Title      string
	Theme      palette.Theme
	ShowValues bool
	BlurHash   string
	Swatches   []Swatch
	Chips      []Swatch
}

// NewPageData builds page data from a session's state.
func NewPageData(title string, state *palette.State, blurHash string) PageData {
	data := PageData{
		Title:      title,
		Theme:      state.Theme,
		ShowValues: state.ShowValues,
		BlurHash:   blurHash,
		Swatches:   make([]Swatch, 0, state.Colors.Len()),
		Chips:      make([]Swatch, 0, state.Colors.Len()),
	}

	selected, _ := state.Colors.Selected()
	for entry := range state.Colors.All() {
		sw := newSwatch(entry, entry.ID == selected.ID)
		data.Swatches = append(data.Swatches, sw)
		if !sw.Selected {
			data.Chips = append(data.Chips, sw)
		}
	}
	return data
}

func newSwatch(entry palette.Entry, selected bool) Swatch {
	sw := Swatch{ID: entry.ID, Value: entry.Value, Selected: selected}
	// Stored values always parse; a zero color renders black on a bad one.
	c, _ := color.ParseValue(entry.Value)
	sw.Hex = c.Hex()
	sw.TextColor = c.TextColor()
	return sw
}
