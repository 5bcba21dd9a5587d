// Package service orchestrates palette operations: it runs user input through
// the color normalizer, applies the result to the session's display list in
// one store transaction, then announces the change over SSE.
package service

import (
	"context"
	"fmt"

	"github.com/listenupapp/swatches/internal/color"
	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/palette"
	"github.com/listenupapp/swatches/internal/sse"
)

// StateStore persists one palette.State per session.
type StateStore interface {
	Load(ctx context.Context, sessionID string) (*palette.State, error)
	Update(ctx context.Context, sessionID string, fn func(*palette.State) error) (*palette.State, error)
	Delete(ctx context.Context, sessionID string) error
}

// EventEmitter broadcasts change events without depending on SSE details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(any) {}

// ApplyResult reports what an apply operation added.
type ApplyResult struct {
	State *palette.State
	Added []palette.Entry
	// Dropped counts candidates discarded as invalid.
	Dropped int
}

// ReplaceResult reports the outcome of an in-place edit.
type ReplaceResult struct {
	State *palette.State
	Entry palette.Entry
	// Changed is false when the input held no usable color and the entry
	// was left alone.
	Changed bool
}

// DeleteResult reports the removed entry.
type DeleteResult struct {
	State            *palette.State
	Entry            palette.Entry
	SelectionCleared bool
}

// PreferencesUpdate changes the preferences that are non-nil.
type PreferencesUpdate struct {
	Theme      *palette.Theme
	ShowValues *bool
}

// PaletteService implements the widget's operations for a browser session.
type PaletteService struct {
	store  StateStore
	events EventEmitter
	logger *logger.Logger
}

// NewPaletteService creates a palette service.
func NewPaletteService(store StateStore, events EventEmitter, log *logger.Logger) *PaletteService {
	if events == nil {
		events = NoopEmitter{}
	}
	return &PaletteService{
		store:  store,
		events: events,
		logger: log.WithComponent("palette"),
	}
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return domainerrors.Validation("session id is required")
	}
	return nil
}

// translate maps lower layer errors onto domain errors.
func translate(err error, entryID string) error {
	switch {
	case err == nil:
		return nil
	case domainerrors.Is(err, palette.ErrEntryNotFound):
		return domainerrors.NotFoundf("color %s not found", entryID).WithCause(err)
	case domainerrors.Is(err, context.Canceled), domainerrors.Is(err, context.DeadlineExceeded):
		return err
	default:
		var domainErr *domainerrors.Error
		if domainerrors.As(err, &domainErr) {
			return err
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "palette update failed")
	}
}

// Get returns the session's current state.
func (s *PaletteService) Get(ctx context.Context, sessionID string) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	state, err := s.store.Load(ctx, sessionID)
	return state, translate(err, "")
}

// ApplyColor appends the single code from the single-code field. Input with no
// usable color is dropped silently and leaves the palette untouched.
func (s *PaletteService) ApplyColor(ctx context.Context, sessionID, raw string) (*ApplyResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	c, ok := color.NormalizeOne(raw)
	if !ok {
		s.logger.Debug("single color input dropped", "session_id", sessionID)
		state, err := s.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return &ApplyResult{State: state, Added: []palette.Entry{}, Dropped: 1}, nil
	}

	result, err := s.apply(ctx, sessionID, []color.Color{c})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyColors appends every valid code in the multi-code input, in order.
func (s *PaletteService) ApplyColors(ctx context.Context, sessionID, raw string) (*ApplyResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	colors := color.Normalize(raw)
	dropped := len(color.SplitCodes(raw)) - len(colors)
	if dropped > 0 {
		s.logger.Debug("invalid color candidates dropped", "session_id", sessionID, "dropped", dropped)
	}

	if len(colors) == 0 {
		state, err := s.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return &ApplyResult{State: state, Added: []palette.Entry{}, Dropped: dropped}, nil
	}

	result, err := s.apply(ctx, sessionID, colors)
	if err != nil {
		return nil, err
	}
	result.Dropped = dropped
	return result, nil
}

func (s *PaletteService) apply(ctx context.Context, sessionID string, colors []color.Color) (*ApplyResult, error) {
	values := make([]string, len(colors))
	for i, c := range colors {
		values[i] = c.Value()
	}

	var added []palette.Entry
	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		var err error
		added, err = st.Colors.Append(values...)
		return err
	})
	if err != nil {
		return nil, translate(err, "")
	}

	s.events.Emit(sse.NewEntriesAddedEvent(sessionID, added))
	s.logger.Info("colors applied",
		"session_id", sessionID,
		"added", len(added),
		"total", state.Colors.Len())

	return &ApplyResult{State: state, Added: added}, nil
}

// ReplaceColor edits an entry in place, keeping its id and position. The
// input may be a bare code or a full display value. Input with no usable color
// leaves the entry unchanged and reports Changed=false.
func (s *PaletteService) ReplaceColor(ctx context.Context, sessionID, entryID, raw string) (*ReplaceResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	c, parseErr := color.ParseValue(raw)

	var (
		entry   palette.Entry
		changed bool
	)
	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		current, ok := st.Colors.Get(entryID)
		if !ok {
			return palette.ErrEntryNotFound
		}
		if parseErr != nil {
			entry = current
			return nil
		}
		var err error
		entry, err = st.Colors.Replace(entryID, c.Value())
		changed = true
		return err
	})
	if err != nil {
		return nil, translate(err, entryID)
	}

	if !changed {
		s.logger.Debug("color edit discarded", "session_id", sessionID, "entry_id", entryID)
		return &ReplaceResult{State: state, Entry: entry}, nil
	}

	s.events.Emit(sse.NewEntryUpdatedEvent(sessionID, entry))
	s.logger.Info("color replaced",
		"session_id", sessionID,
		"entry_id", entryID,
		"hex", c.Hex())

	return &ReplaceResult{State: state, Entry: entry, Changed: true}, nil
}

// DeleteColor removes an entry. The selection clears only if it pointed at
// the removed entry.
func (s *PaletteService) DeleteColor(ctx context.Context, sessionID, entryID string) (*DeleteResult, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	var (
		removed          palette.Entry
		selectionCleared bool
	)
	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		selected, hadSelection := st.Colors.Selected()
		var err error
		removed, err = st.Colors.Delete(entryID)
		selectionCleared = hadSelection && selected.ID == entryID
		return err
	})
	if err != nil {
		return nil, translate(err, entryID)
	}

	s.events.Emit(sse.NewEntryDeletedEvent(sessionID, entryID, selectionCleared))
	s.logger.Info("color deleted",
		"session_id", sessionID,
		"entry_id", entryID,
		"selection_cleared", selectionCleared,
		"remaining", state.Colors.Len())

	return &DeleteResult{State: state, Entry: removed, SelectionCleared: selectionCleared}, nil
}

// Select marks an entry as selected, hiding it from the chip row.
func (s *PaletteService) Select(ctx context.Context, sessionID, entryID string) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		return st.Colors.Select(entryID)
	})
	if err != nil {
		return nil, translate(err, entryID)
	}

	s.events.Emit(sse.NewSelectionChangedEvent(sessionID, entryID))
	s.logger.Debug("color selected", "session_id", sessionID, "entry_id", entryID)
	return state, nil
}

// ClearSelection unselects the selected entry, if any.
func (s *PaletteService) ClearSelection(ctx context.Context, sessionID string) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		st.Colors.ClearSelection()
		return nil
	})
	if err != nil {
		return nil, translate(err, "")
	}

	s.events.Emit(sse.NewSelectionChangedEvent(sessionID, ""))
	s.logger.Debug("selection cleared", "session_id", sessionID)
	return state, nil
}

// UpdatePreferences applies the non-nil fields of update.
func (s *PaletteService) UpdatePreferences(ctx context.Context, sessionID string, update PreferencesUpdate) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if update.Theme != nil && !update.Theme.Valid() {
		return nil, domainerrors.ValidationWithDetails(
			fmt.Sprintf("unknown theme %q", *update.Theme),
			map[string]any{"allowed": []palette.Theme{palette.ThemeLight, palette.ThemeDark}},
		)
	}

	return s.updatePreferences(ctx, sessionID, func(st *palette.State) {
		if update.Theme != nil {
			st.Theme = *update.Theme
		}
		if update.ShowValues != nil {
			st.ShowValues = *update.ShowValues
		}
	})
}

// ToggleTheme flips between the light and dark theme.
func (s *PaletteService) ToggleTheme(ctx context.Context, sessionID string) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.updatePreferences(ctx, sessionID, func(st *palette.State) {
		st.Theme = st.Theme.Toggle()
	})
}

// ToggleValues flips whether swatches show their values.
func (s *PaletteService) ToggleValues(ctx context.Context, sessionID string) (*palette.State, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.updatePreferences(ctx, sessionID, func(st *palette.State) {
		st.ShowValues = !st.ShowValues
	})
}

func (s *PaletteService) updatePreferences(ctx context.Context, sessionID string, mutate func(*palette.State)) (*palette.State, error) {
	state, err := s.store.Update(ctx, sessionID, func(st *palette.State) error {
		mutate(st)
		return nil
	})
	if err != nil {
		return nil, translate(err, "")
	}

	s.events.Emit(sse.NewPreferencesUpdatedEvent(sessionID, state.Theme, state.ShowValues))
	s.logger.Info("preferences updated",
		"session_id", sessionID,
		"theme", string(state.Theme),
		"show_values", state.ShowValues)
	return state, nil
}

// Reset drops everything the session holds.
func (s *PaletteService) Reset(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return translate(err, "")
	}

	s.events.Emit(sse.NewPaletteResetEvent(sessionID))
	s.logger.Info("palette reset", "session_id", sessionID)
	return nil
}
