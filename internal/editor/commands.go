package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/vigor-editor/vigor/internal/buffer"
	"github.com/vigor-editor/vigor/internal/document"
	"github.com/vigor-editor/vigor/internal/mode"
)

var helpText = []string{
	"vigor help",
	"",
	"Normal mode",
	"  h j k l      move cursor",
	"  w e b        word motions",
	"  i            insert mode",
	"  v            visual mode",
	"  d            delete line",
	"  x            delete character",
	"  u            undo",
	"  q            quit",
	"  :            command line",
	"",
	"Leader (space)",
	"  space e      toggle file tree",
	"  space v      vertical shell split",
	"  space h      horizontal shell split",
	"  space w      cycle windows",
	"  space q      close window",
	"  space x      close buffer",
	"  space tab    next tab",
	"",
	"Commands",
	"  :w           write file",
	"  :q           quit",
	"  :wq          write and quit",
	"  :diff        unsaved changes against disk",
	"  :help        this screen",
	"",
	"Press any key to dismiss.",
}

// executeCommand runs the ex command currently on the command line. The
// command line is consumed regardless of outcome.
func (e *Editor) executeCommand() error {
	cmd := strings.TrimSpace(e.commandLine)
	e.commandLine = ""

	switch cmd {
	case "":
		return nil
	case "q", "quit":
		e.quit = true
	case "w", "write":
		return e.saveActive()
	case "wq":
		// A failed save aborts the quit.
		if err := e.saveActive(); err != nil {
			return err
		}
		e.quit = true
	case "help":
		e.overlay = helpText
		e.prevMode = mode.Normal
		e.mode = mode.Help
	case "diff":
		return e.showDiff()
	default:
		e.message = fmt.Sprintf("Unknown command: %s", cmd)
	}
	return nil
}

func (e *Editor) saveActive() error {
	b := e.ActiveBuffer()
	if err := b.Save(); err != nil {
		return err
	}
	e.message = fmt.Sprintf("Written %s", b.Name())
	e.log.Info("saved buffer", "name", b.Name())
	return nil
}

// showDiff renders the unsaved edits of the active buffer as a unified
// diff against the file on disk.
func (e *Editor) showDiff() error {
	b := e.ActiveBuffer()
	if b.IsShell() {
		return buffer.ErrShellBuffer
	}
	filename := b.Doc.Filename()
	if filename == "" {
		return document.ErrNoFilename
	}

	onDisk, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	current := b.Doc.Content()

	edits := myers.ComputeEdits(span.URIFromPath(filename), string(onDisk), current)
	unified := fmt.Sprint(gotextdiff.ToUnified(filename, filename+" (buffer)", string(onDisk), edits))
	if unified == "" {
		e.message = "No changes"
		return nil
	}

	e.overlay = strings.Split(strings.TrimSuffix(unified, "\n"), "\n")
	e.prevMode = mode.Normal
	e.mode = mode.Help
	return nil
}
