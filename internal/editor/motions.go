package editor

import "unicode"

// Cursor motions and normal-mode edits for document buffers. Every motion
// is a no-op on a shell buffer.

func (e *Editor) moveCursorLeft() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if b.CursorX > 0 {
		b.CursorX--
	}
}

func (e *Editor) moveCursorRight() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if b.CursorX < b.Doc.LineLen(b.CursorY) {
		b.CursorX++
	}
}

// moveCursorUp moves a row up, clamping the column to the new line length.
func (e *Editor) moveCursorUp() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if b.CursorY > 0 {
		b.CursorY--
		if n := b.Doc.LineLen(b.CursorY); b.CursorX > n {
			b.CursorX = n
		}
	}
}

func (e *Editor) moveCursorDown() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if b.CursorY < b.Doc.LineCount()-1 {
		b.CursorY++
		if n := b.Doc.LineLen(b.CursorY); b.CursorX > n {
			b.CursorX = n
		}
	}
}

// isSeparator reports whether a byte ends a word.
func isSeparator(c byte) bool {
	r := rune(c)
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// moveToNextWordStart advances to the first character of the next word,
// wrapping across lines. At the end of the document it moves to the end of
// the last line.
func (e *Editor) moveToNextWordStart() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	x, y := b.CursorX, b.CursorY
	line := b.Doc.Line(y)

	// Skip the rest of the current word.
	for x < len(line) && !isSeparator(line[x]) {
		x++
	}
	// Skip separators, following line wraps.
	for {
		if x >= len(line) {
			if y >= b.Doc.LineCount()-1 {
				b.CursorX, b.CursorY = len(line), y
				return
			}
			y++
			x = 0
			line = b.Doc.Line(y)
			continue
		}
		if isSeparator(line[x]) {
			x++
			continue
		}
		break
	}
	b.CursorX, b.CursorY = x, y
}

// moveToNextWordEnd advances to the last character of the current or next
// word. It is idempotent once the cursor sits on the final word end of the
// document.
func (e *Editor) moveToNextWordEnd() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	x, y := b.CursorX, b.CursorY
	line := b.Doc.Line(y)

	x++
	for {
		if x >= len(line) {
			if y >= b.Doc.LineCount()-1 {
				return
			}
			y++
			x = 0
			line = b.Doc.Line(y)
			continue
		}
		if isSeparator(line[x]) {
			x++
			continue
		}
		break
	}
	// x sits on a word character; run to the last one.
	for x+1 < len(line) && !isSeparator(line[x+1]) {
		x++
	}
	b.CursorX, b.CursorY = x, y
}

// moveToPrevWordStart moves back to the first character of the previous
// word, wrapping across lines. At the start of the document it stays put.
func (e *Editor) moveToPrevWordStart() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	x, y := b.CursorX, b.CursorY
	line := b.Doc.Line(y)

	x--
	for {
		if x < 0 {
			if y == 0 {
				b.CursorX, b.CursorY = 0, 0
				return
			}
			y--
			line = b.Doc.Line(y)
			x = len(line) - 1
			continue
		}
		if isSeparator(line[x]) {
			x--
			continue
		}
		break
	}
	// x sits on a word character; run back to the first one.
	for x > 0 && !isSeparator(line[x-1]) {
		x--
	}
	b.CursorX, b.CursorY = x, y
}

// deleteCurrentLine removes the cursor line and moves the cursor to the
// start of whatever line takes its place.
func (e *Editor) deleteCurrentLine() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	b.Doc.DeleteLine(b.CursorY)
	if b.CursorY >= b.Doc.LineCount() {
		b.CursorY = b.Doc.LineCount() - 1
	}
	b.CursorX = 0
}

// deleteCharUnderCursor removes the character at the cursor and clamps the
// column back into the shortened line.
func (e *Editor) deleteCharUnderCursor() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if b.Doc.DeleteChar(b.CursorY, b.CursorX) {
		if n := b.Doc.LineLen(b.CursorY); b.CursorX >= n && b.CursorX > 0 {
			b.CursorX = n - 1
			if b.CursorX < 0 {
				b.CursorX = 0
			}
		}
	}
}

// undo rolls back the latest edit and restores its recorded cursor.
func (e *Editor) undo() {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	if x, y, ok := b.Doc.Undo(); ok {
		b.CursorX, b.CursorY = x, y
		b.ClampCursor()
		e.message = "Undone"
	} else {
		e.message = "Already at oldest change"
	}
}
