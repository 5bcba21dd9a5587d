// Package palette holds the ordered display list of color entries and the
// per-session preferences rendered alongside it.
package palette

import (
	"container/list"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/id"
)

// ErrEntryNotFound is returned for ids that are not in the list.
var ErrEntryNotFound = errors.New("palette entry not found")

// Entry is one color on the display list.
type Entry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Option configures a List.
type Option func(*List)

// WithIDGenerator overrides how new entry ids are produced.
func WithIDGenerator(gen id.Generator) Option {
	return func(l *List) {
		l.gen = gen
	}
}

// List is an insertion-ordered collection of entries keyed by id.
// Lookups, deletes and replacements are O(1) and never disturb the order of
// other entries. Duplicate values are allowed.
//
// The zero value is an empty list ready to use. A List is not safe for
// concurrent use.
type List struct {
	order    list.List
	index    map[string]*list.Element
	selected string
	gen      id.Generator
}

// NewList creates an empty list.
func NewList(opts ...Option) *List {
	l := &List{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *List) init() {
	if l.index == nil {
		l.index = make(map[string]*list.Element)
	}
	if l.gen == nil {
		l.gen = id.NanoID(id.PrefixColor)
	}
}

// Append adds one entry per value after the existing ones and returns the new
// entries in order.
func (l *List) Append(values ...string) ([]Entry, error) {
	l.init()

	added := make([]Entry, 0, len(values))
	for _, v := range values {
		entryID, err := l.gen()
		if err != nil {
			return added, fmt.Errorf("generate entry id: %w", err)
		}
		if _, exists := l.index[entryID]; exists {
			return added, fmt.Errorf("duplicate entry id %q", entryID)
		}
		e := Entry{ID: entryID, Value: v}
		l.index[entryID] = l.order.PushBack(e)
		added = append(added, e)
	}
	return added, nil
}

// Delete removes the entry with the given id. Deleting the selected entry
// clears the selection.
func (l *List) Delete(entryID string) (Entry, error) {
	el, ok := l.index[entryID]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	e := l.order.Remove(el).(Entry)
	delete(l.index, entryID)
	if l.selected == entryID {
		l.selected = ""
	}
	return e, nil
}

// Replace swaps the value of an entry in place. The id and position are kept.
func (l *List) Replace(entryID, value string) (Entry, error) {
	el, ok := l.index[entryID]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	e := Entry{ID: entryID, Value: value}
	el.Value = e
	return e, nil
}

// Get returns the entry with the given id.
func (l *List) Get(entryID string) (Entry, bool) {
	el, ok := l.index[entryID]
	if !ok {
		return Entry{}, false
	}
	return el.Value.(Entry), true
}

// All iterates entries in display order.
func (l *List) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for el := l.order.Front(); el != nil; el = el.Next() {
			if !yield(el.Value.(Entry)) {
				return
			}
		}
	}
}

// Entries returns a snapshot of the entries in display order.
func (l *List) Entries() []Entry {
	out := make([]Entry, 0, l.Len())
	for e := range l.All() {
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.index)
}

// Select marks an entry as the selected one.
func (l *List) Select(entryID string) error {
	if _, ok := l.index[entryID]; !ok {
		return ErrEntryNotFound
	}
	l.selected = entryID
	return nil
}

// ClearSelection unselects whatever entry was selected.
func (l *List) ClearSelection() {
	l.selected = ""
}

// Selected returns the selected entry, if any.
func (l *List) Selected() (Entry, bool) {
	if l.selected == "" {
		return Entry{}, false
	}
	return l.Get(l.selected)
}

// Clear removes every entry and the selection.
func (l *List) Clear() {
	l.order.Init()
	clear(l.index)
	l.selected = ""
}

type listJSON struct {
	Entries  []Entry `json:"entries"`
	Selected string  `json:"selected,omitempty"`
}

// MarshalJSON encodes the entries in display order along with the selection.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(listJSON{Entries: l.Entries(), Selected: l.selected})
}

// UnmarshalJSON replaces the list contents. The id generator is kept.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw listJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.init()
	l.Clear()
	for _, e := range raw.Entries {
		if _, exists := l.index[e.ID]; exists {
			return fmt.Errorf("duplicate entry id %q", e.ID)
		}
		l.index[e.ID] = l.order.PushBack(e)
	}
	if _, ok := l.index[raw.Selected]; ok {
		l.selected = raw.Selected
	}
	return nil
}
