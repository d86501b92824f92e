// Package mode defines the editor's input modes.
package mode

// Mode represents the current interpretation context for input events.
type Mode int

const (
	// Normal is the default mode for navigation and commands.
	Normal Mode = iota
	// Insert inserts typed characters into the active document.
	Insert
	// Visual is for selection-style movement.
	Visual
	// Command collects an ex command after ':'.
	Command
	// FileTree navigates the directory browser.
	FileTree
	// Shell forwards line-edited input to an embedded shell session.
	Shell
	// Help shows the help overlay.
	Help
	// TabSwitcher cycles through tabs.
	TabSwitcher
)

// String returns the human-readable mode name as shown in the status line.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	case Visual:
		return "VISUAL"
	case Command:
		return "COMMAND"
	case FileTree:
		return "FILETREE"
	case Shell:
		return "SHELL"
	case Help:
		return "HELP"
	case TabSwitcher:
		return "TAB"
	default:
		return "UNKNOWN"
	}
}

// IsShell returns true if the mode forwards input to a shell session.
func (m Mode) IsShell() bool {
	return m == Shell
}

// IsNormal returns true if the mode is normal (navigation) mode.
func (m Mode) IsNormal() bool {
	return m == Normal
}
