package palette

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/swatches/internal/id"
)

func TestTheme(t *testing.T) {
	assert.True(t, ThemeLight.Valid())
	assert.True(t, ThemeDark.Valid())
	assert.False(t, Theme("sepia").Valid())
	assert.False(t, Theme("").Valid())

	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, ThemeLight, s.Theme)
	assert.True(t, s.ShowValues)
	assert.Equal(t, 0, s.Colors.Len())
}

func TestState_Chips(t *testing.T) {
	s := NewState(WithIDGenerator(id.Sequential("c")))
	_, err := s.Colors.Append("#a", "#b", "#c")
	require.NoError(t, err)

	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, ids(s.Chips()))

	require.NoError(t, s.Colors.Select("c-2"))
	assert.Equal(t, []string{"c-1", "c-3"}, ids(s.Chips()))
}

func TestState_JSONRoundTrip(t *testing.T) {
	s := NewState(WithIDGenerator(id.Sequential("c")))
	_, err := s.Colors.Append("#a", "#b")
	require.NoError(t, err)
	require.NoError(t, s.Colors.Select("c-1"))
	s.Theme = ThemeDark
	s.ShowValues = false

	data, err := json.Marshal(s)
	require.NoError(t, err)

	restored := NewState()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, ThemeDark, restored.Theme)
	assert.False(t, restored.ShowValues)
	assert.Equal(t, s.Colors.Entries(), restored.Colors.Entries())
	sel, ok := restored.Colors.Selected()
	require.True(t, ok)
	assert.Equal(t, "c-1", sel.ID)
}
