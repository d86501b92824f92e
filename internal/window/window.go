// Package window tiles the editing area among concurrently visible buffers.
package window

// Kind selects the split direction.
type Kind int

const (
	// SplitHorizontal divides a window into top and bottom halves.
	SplitHorizontal Kind = iota
	// SplitVertical divides a window into left and right halves.
	SplitVertical
)

// Window is a screen rectangle displaying one buffer. FilePath is advisory,
// used to restore context when splitting.
type Window struct {
	X, Y          int
	Width, Height int
	Active        bool
	FilePath      string
}

// New creates a window covering the given rectangle.
func New(x, y, width, height int) *Window {
	return &Window{X: x, Y: y, Width: width, Height: height}
}

// split divides the window into two adjacent rectangles. Both children
// inherit the parent's advisory file path.
func (w *Window) split(kind Kind) (*Window, *Window) {
	var a, b *Window
	switch kind {
	case SplitHorizontal:
		topHeight := w.Height / 2
		a = New(w.X, w.Y, w.Width, topHeight)
		b = New(w.X, w.Y+topHeight, w.Width, w.Height-topHeight)
	default:
		leftWidth := w.Width / 2
		a = New(w.X, w.Y, leftWidth, w.Height)
		b = New(w.X+leftWidth, w.Y, w.Width-leftWidth, w.Height)
	}
	a.FilePath = w.FilePath
	b.FilePath = w.FilePath
	return a, b
}

// Manager holds the ordered window list. The list is never empty and
// exactly one window is active at all times.
type Manager struct {
	windows []*Window
	active  int
}

// NewManager creates a manager with a single initial window covering the
// given editing area.
func NewManager(width, height int) *Manager {
	m := &Manager{windows: []*Window{New(0, 0, width, height)}}
	m.syncActive()
	return m
}

// Count returns the number of windows.
func (m *Manager) Count() int { return len(m.windows) }

// Active returns the active window.
func (m *Manager) Active() *Window { return m.windows[m.active] }

// ActiveIndex returns the index of the active window.
func (m *Manager) ActiveIndex() int { return m.active }

// All returns the window list. The returned slice is a copy.
func (m *Manager) All() []*Window {
	out := make([]*Window, len(m.windows))
	copy(out, m.windows)
	return out
}

// Split replaces the active window with two adjacent children and makes
// the second child active.
func (m *Manager) Split(kind Kind) {
	first, second := m.Active().split(kind)
	rest := append([]*Window{first, second}, m.windows[m.active+1:]...)
	m.windows = append(m.windows[:m.active], rest...)
	m.active++
	m.syncActive()
}

// Cycle advances the active window circularly.
func (m *Manager) Cycle() {
	m.active = (m.active + 1) % len(m.windows)
	m.syncActive()
}

// Close removes the active window and reports whether one was removed.
// The last window is never removed; the caller decides whether that close
// request means quit.
func (m *Manager) Close() bool {
	if len(m.windows) <= 1 {
		return false
	}
	m.windows = append(m.windows[:m.active], m.windows[m.active+1:]...)
	if m.active >= len(m.windows) {
		m.active = len(m.windows) - 1
	}
	m.syncActive()
	return true
}

// Resize scales the single-window case to a new editing area. With multiple
// windows the tiling is left as-is; the renderer clips.
func (m *Manager) Resize(width, height int) {
	if len(m.windows) == 1 {
		w := m.windows[0]
		w.X, w.Y, w.Width, w.Height = 0, 0, width, height
	}
}

// syncActive maintains the exactly-one-active invariant on the Active flags.
func (m *Manager) syncActive() {
	for i, w := range m.windows {
		w.Active = i == m.active
	}
}
