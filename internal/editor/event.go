package editor

// Key identifies a non-rune key, or KeyRune for printable input.
type Key int

const (
	KeyRune Key = iota
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyTab
	KeyBacktab
)

// KeyEvent is one keystroke. Ch is meaningful only for KeyRune.
type KeyEvent struct {
	Key Key
	Ch  rune
}

// Rune builds a printable-key event.
func Rune(ch rune) KeyEvent { return KeyEvent{Key: KeyRune, Ch: ch} }

// MouseEvent is one mouse click in screen coordinates.
type MouseEvent struct {
	X, Y int
}
