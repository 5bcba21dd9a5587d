// Package sse pushes palette changes to every open tab of a browser session
// over Server-Sent Events.
package sse

import (
	"time"

	"github.com/listenupapp/swatches/internal/palette"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventEntriesAdded is sent after colors are appended.
	EventEntriesAdded EventType = "palette.entries_added"
	// EventEntryUpdated is sent after an in-place edit.
	EventEntryUpdated EventType = "palette.entry_updated"
	// EventEntryDeleted is sent after an entry is removed.
	EventEntryDeleted EventType = "palette.entry_deleted"
	// EventSelectionChanged is sent when the selected entry changes or clears.
	EventSelectionChanged EventType = "palette.selection_changed"
	// EventPreferencesUpdated is sent when theme or value display changes.
	EventPreferencesUpdated EventType = "palette.preferences_updated"
	// EventPaletteReset is sent when the session's state is dropped.
	EventPaletteReset EventType = "palette.reset"

	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on the stream.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID limits delivery to that session's clients. Empty means
	// every client.
	SessionID string `json:"-"`
}

// EntriesAddedEventData lists appended entries in display order.
type EntriesAddedEventData struct {
	Entries []palette.Entry `json:"entries"`
}

// EntryUpdatedEventData carries the edited entry.
type EntryUpdatedEventData struct {
	Entry palette.Entry `json:"entry"`
}

// EntryDeletedEventData identifies the removed entry.
type EntryDeletedEventData struct {
	EntryID          string `json:"entry_id"`
	SelectionCleared bool   `json:"selection_cleared"`
}

// SelectionChangedEventData carries the new selection. Empty means cleared.
type SelectionChangedEventData struct {
	SelectedID string `json:"selected_id"`
}

// PreferencesUpdatedEventData carries the current preferences.
type PreferencesUpdatedEventData struct {
	Theme      palette.Theme `json:"theme"`
	ShowValues bool          `json:"show_values"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

func newEvent(sessionID string, t EventType, data any) Event {
	return Event{
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewEntriesAddedEvent creates a palette.entries_added event.
func NewEntriesAddedEvent(sessionID string, entries []palette.Entry) Event {
	return newEvent(sessionID, EventEntriesAdded, EntriesAddedEventData{Entries: entries})
}

// NewEntryUpdatedEvent creates a palette.entry_updated event.
func NewEntryUpdatedEvent(sessionID string, entry palette.Entry) Event {
	return newEvent(sessionID, EventEntryUpdated, EntryUpdatedEventData{Entry: entry})
}

// NewEntryDeletedEvent creates a palette.entry_deleted event.
func NewEntryDeletedEvent(sessionID, entryID string, selectionCleared bool) Event {
	return newEvent(sessionID, EventEntryDeleted, EntryDeletedEventData{
		EntryID:          entryID,
		SelectionCleared: selectionCleared,
	})
}

// NewSelectionChangedEvent creates a palette.selection_changed event.
func NewSelectionChangedEvent(sessionID, selectedID string) Event {
	return newEvent(sessionID, EventSelectionChanged, SelectionChangedEventData{SelectedID: selectedID})
}

// NewPreferencesUpdatedEvent creates a palette.preferences_updated event.
func NewPreferencesUpdatedEvent(sessionID string, theme palette.Theme, showValues bool) Event {
	return newEvent(sessionID, EventPreferencesUpdated, PreferencesUpdatedEventData{
		Theme:      theme,
		ShowValues: showValues,
	})
}

// NewPaletteResetEvent creates a palette.reset event.
func NewPaletteResetEvent(sessionID string) Event {
	return newEvent(sessionID, EventPaletteReset, struct{}{})
}

// NewHeartbeatEvent creates a heartbeat event for every client.
func NewHeartbeatEvent() Event {
	return newEvent("", EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
