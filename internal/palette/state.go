package palette

// Theme is the page color scheme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is everything one browser session sees: the display list plus
// preferences.
type State struct {
	Colors     *List `json:"colors"`
	Theme      Theme `json:"theme"`
	ShowValues bool  `json:"show_values"`
}

// NewState returns the state of a fresh session. Options apply to the list.
func NewState(opts ...Option) *State {
	return &State{
		Colors:     NewList(opts...),
		Theme:      ThemeLight,
		ShowValues: true,
	}
}

// Chips returns the entries shown in the chip row, which leaves out the
// selected entry.
func (s *State) Chips() []Entry {
	selected, hasSelection := s.Colors.Selected()
	chips := make([]Entry, 0, s.Colors.Len())
	for e := range s.Colors.All() {
		if hasSelection && e.ID == selected.ID {
			continue
		}
		chips = append(chips, e)
	}
	return chips
}
