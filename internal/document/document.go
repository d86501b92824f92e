// Package document holds the in-memory text of one file.
package document

import (
	"errors"
	"os"
	"strings"
)

// ErrNoFilename is returned by Save when the document has no backing path.
var ErrNoFilename = errors.New("no filename specified")

// undoEntry is one step of the flat undo log: the cursor position at the
// time of the edit plus a full snapshot of the text before it.
type undoEntry struct {
	cursorX  int
	cursorY  int
	snapshot []string
}

// Document is the line-addressable content of one file. The line slice is
// never empty; an empty document holds a single empty line.
type Document struct {
	lines    []string
	filename string
	modified bool
	undo     []undoEntry
}

// New creates an empty document with a single empty line.
func New() *Document {
	return &Document{lines: []string{""}}
}

// Load reads a file into a document. An empty file loads as one empty line.
func Load(filename string) (*Document, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := splitLines(string(content))
	return &Document{lines: lines, filename: filename}, nil
}

// splitLines splits file content on line boundaries, guaranteeing at least
// one (possibly empty) line.
func splitLines(content string) []string {
	if content == "" {
		return []string{""}
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// Filename returns the backing file path, or "" for a scratch document.
func (d *Document) Filename() string { return d.filename }

// SetFilename sets the backing file path.
func (d *Document) SetFilename(name string) { d.filename = name }

// Modified reports whether there are unsaved changes.
func (d *Document) Modified() bool { return d.modified }

// LineCount returns the number of lines. Always at least 1.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the line at row, or "" if row is out of range.
func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

// LineLen returns the length of the line at row, or 0 if out of range.
func (d *Document) LineLen(row int) int { return len(d.Line(row)) }

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Content returns the document serialized as lines joined by newline.
func (d *Document) Content() string {
	return strings.Join(d.lines, "\n")
}

// Save writes the document to its backing file and clears the modified flag.
func (d *Document) Save() error {
	if d.filename == "" {
		return ErrNoFilename
	}
	if err := os.WriteFile(d.filename, []byte(d.Content()), 0o644); err != nil {
		return err
	}
	d.modified = false
	return nil
}

// InsertChar inserts c at (row, col). A row out of range is a no-op; a col
// past the end of the line appends.
func (d *Document) InsertChar(row, col int, c rune) {
	if row < 0 || row >= len(d.lines) {
		return
	}
	d.recordUndo(col, row)
	line := d.lines[row]
	if col < 0 || col > len(line) {
		d.lines[row] = line + string(c)
	} else {
		d.lines[row] = line[:col] + string(c) + line[col:]
	}
	d.modified = true
}

// DeleteChar removes the character at (row, col) and reports whether one was
// removed. Positions past the end of the line are a no-op.
func (d *Document) DeleteChar(row, col int) bool {
	if row < 0 || row >= len(d.lines) {
		return false
	}
	line := d.lines[row]
	if col < 0 || col >= len(line) {
		return false
	}
	d.recordUndo(col, row)
	d.lines[row] = line[:col] + line[col+1:]
	d.modified = true
	return true
}

// InsertLine inserts text as a new line at row, clamping row into
// [0, LineCount].
func (d *Document) InsertLine(row int, text string) {
	if row < 0 {
		row = 0
	}
	if row > len(d.lines) {
		row = len(d.lines)
	}
	d.recordUndo(0, row)
	d.lines = append(d.lines[:row], append([]string{text}, d.lines[row:]...)...)
	d.modified = true
}

// DeleteLine removes the line at row. Deleting the only line leaves a single
// empty line so the never-empty invariant holds.
func (d *Document) DeleteLine(row int) bool {
	if row < 0 || row >= len(d.lines) {
		return false
	}
	d.recordUndo(0, row)
	d.lines = append(d.lines[:row], d.lines[row+1:]...)
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	d.modified = true
	return true
}

// recordUndo appends a (cursor, snapshot) pair to the flat undo log.
func (d *Document) recordUndo(x, y int) {
	d.undo = append(d.undo, undoEntry{cursorX: x, cursorY: y, snapshot: d.Lines()})
}

// Undo restores the most recent snapshot and returns the cursor position
// recorded with it. Returns ok=false when the log is empty. The log is
// linear: there is no redo.
func (d *Document) Undo() (x, y int, ok bool) {
	if len(d.undo) == 0 {
		return 0, 0, false
	}
	last := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.lines = last.snapshot
	d.modified = true
	return last.cursorX, last.cursorY, true
}
