// Package tabs provides the named, ordered tab collection.
package tabs

import (
	"errors"
	"fmt"

	"github.com/vigor-editor/vigor/internal/buffer"
)

// Sentinel errors for the tabs package.
var (
	// ErrNoTabs is returned by switch operations when no tabs exist.
	ErrNoTabs = errors.New("no tabs available")

	// ErrTabExists is returned when creating a tab with a duplicate name.
	ErrTabExists = errors.New("tab already exists")

	// ErrTabNotFound is returned when switching to an out-of-range tab.
	ErrTabNotFound = errors.New("tab not found")
)

// Tab is one named entry owning a buffer. Ids are monotonic and never
// reused.
type Tab struct {
	ID     int
	Name   string
	Buffer *buffer.Buffer
}

// Manager holds the ordered tab list with a name lookup and the current
// index, valid whenever the list is non-empty.
type Manager struct {
	tabs    []*Tab
	current int
	byName  map[string]int
	nextID  int
}

// NewManager creates an empty tab manager.
func NewManager() *Manager {
	return &Manager{byName: make(map[string]int)}
}

// Create adds a tab with a unique name and returns its id.
func (m *Manager) Create(name string, buf *buffer.Buffer) (int, error) {
	if _, ok := m.byName[name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrTabExists, name)
	}
	id := m.nextID
	m.nextID++
	m.tabs = append(m.tabs, &Tab{ID: id, Name: name, Buffer: buf})
	m.byName[name] = id
	return id, nil
}

// Count returns the number of tabs.
func (m *Manager) Count() int { return len(m.tabs) }

// CurrentIndex returns the current tab index.
func (m *Manager) CurrentIndex() int { return m.current }

// Current returns the current tab, or nil when no tabs exist.
func (m *Manager) Current() *Tab {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.current]
}

// SwitchNext advances to the next tab, wrapping around.
func (m *Manager) SwitchNext() error {
	if len(m.tabs) == 0 {
		return ErrNoTabs
	}
	m.current = (m.current + 1) % len(m.tabs)
	return nil
}

// SwitchPrev moves to the previous tab, wrapping around.
func (m *Manager) SwitchPrev() error {
	if len(m.tabs) == 0 {
		return ErrNoTabs
	}
	if m.current == 0 {
		m.current = len(m.tabs) - 1
	} else {
		m.current--
	}
	return nil
}

// SwitchTo selects the tab at idx.
func (m *Manager) SwitchTo(idx int) error {
	if idx < 0 || idx >= len(m.tabs) {
		return fmt.Errorf("%w: %d", ErrTabNotFound, idx)
	}
	m.current = idx
	return nil
}

// List returns (id, name) pairs in tab order.
func (m *Manager) List() []Tab {
	out := make([]Tab, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = *t
	}
	return out
}
