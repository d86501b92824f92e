// Package buffer provides the display slot shown inside a window: either a
// text document or a live shell session, plus its own cursor and viewport.
package buffer

import (
	"errors"
	"log/slog"

	"github.com/vigor-editor/vigor/internal/document"
	"github.com/vigor-editor/vigor/internal/shell"
)

// ErrShellBuffer is returned when a document-only operation is attempted on
// a shell buffer.
var ErrShellBuffer = errors.New("cannot save a shell buffer")

// Buffer owns either a Document or a Shell session, never both, and carries
// an independent cursor (x, y) and viewport offset.
type Buffer struct {
	Doc   *document.Document
	Shell *shell.Session

	CursorX int
	CursorY int
	OffsetX int
	OffsetY int
}

// New creates an empty document buffer.
func New() *Buffer {
	return &Buffer{Doc: document.New()}
}

// FromFile creates a buffer backed by the named file.
func FromFile(filename string) (*Buffer, error) {
	doc, err := document.Load(filename)
	if err != nil {
		return nil, err
	}
	return &Buffer{Doc: doc}, nil
}

// FromShell creates a buffer that owns a freshly spawned shell session.
func FromShell(shellCmd string, kind shell.SplitKind, log *slog.Logger) *Buffer {
	return &Buffer{Shell: shell.New(shellCmd, kind, log)}
}

// IsShell reports whether the buffer wraps a shell session.
func (b *Buffer) IsShell() bool { return b.Shell != nil }

// Name returns the display name: the file path, "[Shell]" for a shell
// buffer, or "[No Name]" for a scratch document.
func (b *Buffer) Name() string {
	if b.IsShell() {
		return "[Shell]"
	}
	if b.Doc.Filename() != "" {
		return b.Doc.Filename()
	}
	return "[No Name]"
}

// Modified reports unsaved changes. Shell buffers are never modified.
func (b *Buffer) Modified() bool {
	return !b.IsShell() && b.Doc.Modified()
}

// Save writes the document to disk. Shell buffers reject the operation.
func (b *Buffer) Save() error {
	if b.IsShell() {
		return ErrShellBuffer
	}
	return b.Doc.Save()
}

// ClampCursor clamps the cursor to valid document coordinates: the row into
// the line range and the column to the target line's length.
func (b *Buffer) ClampCursor() {
	if b.IsShell() {
		return
	}
	if b.CursorY >= b.Doc.LineCount() {
		b.CursorY = b.Doc.LineCount() - 1
	}
	if b.CursorY < 0 {
		b.CursorY = 0
	}
	if n := b.Doc.LineLen(b.CursorY); b.CursorX > n {
		b.CursorX = n
	}
	if b.CursorX < 0 {
		b.CursorX = 0
	}
}

// Close releases resources owned by the buffer. For a shell buffer this
// terminates the child process and joins its readers.
func (b *Buffer) Close() {
	if b.Shell != nil {
		b.Shell.Close()
	}
}
