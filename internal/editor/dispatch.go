package editor

import (
	"github.com/vigor-editor/vigor/internal/buffer"
	"github.com/vigor-editor/vigor/internal/mode"
	"github.com/vigor-editor/vigor/internal/shell"
)

// HandleKey routes one keystroke through the mode state machine. Handler
// failures are absorbed here: they are logged and shown on the message
// line, never allowed to abort the session.
func (e *Editor) HandleKey(ev KeyEvent) {
	if err := e.dispatchKey(ev); err != nil {
		e.log.Warn("keystroke failed", "mode", e.mode.String(), "error", err)
		e.message = err.Error()
	}
}

// dispatchKey is total over (mode, pendingLeader, event): every pair has a
// defined, possibly no-op, transition.
func (e *Editor) dispatchKey(ev KeyEvent) error {
	if e.mode.IsNormal() && e.pendingLeader {
		// The flag is cleared before the lookup regardless of outcome.
		e.pendingLeader = false
		return e.leaderCommand(ev)
	}

	switch e.mode {
	case mode.Normal:
		return e.handleNormal(ev)
	case mode.Insert:
		return e.handleInsert(ev)
	case mode.Visual:
		return e.handleVisual(ev)
	case mode.Command:
		return e.handleCommand(ev)
	case mode.FileTree:
		return e.handleFileTree(ev)
	case mode.Shell:
		return e.handleShell(ev)
	case mode.Help:
		return e.handleHelp(ev)
	case mode.TabSwitcher:
		return e.handleTabSwitcher(ev)
	}
	return nil
}

// HandleMouse handles a click independently of mode, except that a click
// while Help is active dismisses it.
func (e *Editor) HandleMouse(ev MouseEvent) {
	if e.mode == mode.Help {
		e.overlay = nil
		e.mode = e.prevMode
		return
	}
	b := e.ActiveBuffer()
	if b.IsShell() {
		return
	}
	b.CursorX, b.CursorY = ev.X, ev.Y
	b.ClampCursor()
}

// leaderCommand looks a key up in the fixed leader table.
func (e *Editor) leaderCommand(ev KeyEvent) error {
	switch {
	case ev.Key == KeyTab:
		return e.tabMgr.SwitchNext()
	case ev.Key == KeyBacktab:
		return e.tabMgr.SwitchPrev()
	case ev.Key != KeyRune:
		return nil
	}

	switch ev.Ch {
	case 'e':
		e.toggleFileTree()
	case 'v':
		return e.openShell(shell.SplitVertical)
	case 'h':
		return e.openShell(shell.SplitHorizontal)
	case 'w':
		e.windows.Cycle()
	case 'q':
		return e.closeWindow()
	case 'x':
		return e.closeBuffer()
	}
	return nil
}

func (e *Editor) toggleFileTree() {
	e.tree.ToggleVisible()
	if e.tree.Visible {
		e.prevMode = e.mode
		e.mode = mode.FileTree
	} else {
		e.mode = e.prevMode
	}
}

func (e *Editor) handleNormal(ev KeyEvent) error {
	if ev.Key != KeyRune {
		return nil
	}
	switch ev.Ch {
	case ' ':
		e.pendingLeader = true
	case 'q':
		e.quit = true
	case ':':
		e.mode = mode.Command
		e.commandLine = ""
		e.message = ""
	case 'i':
		e.mode = mode.Insert
	case 'v':
		e.mode = mode.Visual
	case 'h':
		e.moveCursorLeft()
	case 'j':
		e.moveCursorDown()
	case 'k':
		e.moveCursorUp()
	case 'l':
		e.moveCursorRight()
	case 'w':
		e.moveToNextWordStart()
	case 'e':
		e.moveToNextWordEnd()
	case 'b':
		e.moveToPrevWordStart()
	case 'd':
		e.deleteCurrentLine()
	case 'x':
		e.deleteCharUnderCursor()
	case 'u':
		e.undo()
	}
	return nil
}

func (e *Editor) handleInsert(ev KeyEvent) error {
	b := e.ActiveBuffer()
	if b.IsShell() {
		// Typing into a shell buffer belongs to Shell mode.
		e.mode = mode.Shell
		return e.handleShell(ev)
	}

	switch ev.Key {
	case KeyEsc:
		e.mode = mode.Normal
	case KeyRune:
		b.Doc.InsertChar(b.CursorY, b.CursorX, ev.Ch)
		b.CursorX++
	case KeyBackspace:
		if b.CursorX > 0 {
			b.CursorX--
			b.Doc.DeleteChar(b.CursorY, b.CursorX)
		}
	case KeyEnter:
		b.Doc.InsertLine(b.CursorY+1, "")
		b.CursorY++
		b.CursorX = 0
	}
	return nil
}

func (e *Editor) handleVisual(ev KeyEvent) error {
	if ev.Key == KeyEsc {
		e.mode = mode.Normal
		return nil
	}
	if ev.Key != KeyRune {
		return nil
	}
	switch ev.Ch {
	case 'h':
		e.moveCursorLeft()
	case 'j':
		e.moveCursorDown()
	case 'k':
		e.moveCursorUp()
	case 'l':
		e.moveCursorRight()
	}
	return nil
}

func (e *Editor) handleCommand(ev KeyEvent) error {
	switch ev.Key {
	case KeyEsc:
		e.mode = mode.Normal
	case KeyEnter:
		err := e.executeCommand()
		// The command may have changed the mode itself (e.g. :help).
		if e.mode == mode.Command {
			e.mode = mode.Normal
		}
		return err
	case KeyBackspace:
		if len(e.commandLine) > 0 {
			e.commandLine = e.commandLine[:len(e.commandLine)-1]
		}
	case KeyRune:
		e.commandLine += string(ev.Ch)
	}
	return nil
}

func (e *Editor) handleFileTree(ev KeyEvent) error {
	t := e.tree

	if ev.Key == KeyEsc || (ev.Key == KeyRune && ev.Ch == 'q') {
		t.ToggleVisible()
		e.mode = e.prevMode
		return nil
	}

	switch {
	case ev.Key == KeyRune && ev.Ch == 'j':
		t.MoveCursorDown()
	case ev.Key == KeyRune && ev.Ch == 'k':
		t.MoveCursorUp()
	case ev.Key == KeyEnter || (ev.Key == KeyRune && ev.Ch == 'l'):
		return e.fileTreeOpen()
	case ev.Key == KeyRune && ev.Ch == 'h':
		sel, ok := t.Selected()
		if ok && sel.IsDir && sel.IsExpanded {
			return t.ToggleExpand()
		}
		return t.MoveToParent()
	}
	return nil
}

// fileTreeOpen expands a directory or opens the selected file into the
// active buffer. An open failure surfaces on the message line and leaves
// the mode and the previous buffer untouched.
func (e *Editor) fileTreeOpen() error {
	sel, ok := e.tree.Selected()
	if !ok {
		return nil
	}
	if sel.IsDir {
		return e.tree.ToggleExpand()
	}

	buf, err := buffer.FromFile(sel.Path)
	if err != nil {
		return err
	}
	old := e.buffers[e.active]
	if !e.tabReferences(old) {
		old.Close()
	}
	e.buffers[e.active] = buf
	e.windows.Active().FilePath = sel.Path
	e.refreshSyntax(buf)
	e.startServer(sel.Path)

	e.tree.ToggleVisible()
	e.mode = e.prevMode
	return nil
}

func (e *Editor) handleShell(ev KeyEvent) error {
	b := e.ActiveBuffer()
	if !b.IsShell() {
		e.mode = e.prevMode
		return nil
	}
	sess := b.Shell

	sess.PollOutput()
	if !sess.Running() {
		e.mode = e.prevMode
		e.log.Info("shell not running, leaving shell mode", "mode", e.mode.String())
		return nil
	}

	switch ev.Key {
	case KeyEsc:
		e.mode = e.prevMode
	case KeyEnter:
		return sess.Execute()
	case KeyRune:
		sess.InputChar(ev.Ch)
	case KeyBackspace:
		sess.InputBackspace()
	case KeyDelete:
		sess.InputDelete()
	case KeyLeft:
		sess.MoveCursorLeft()
	case KeyRight:
		sess.MoveCursorRight()
	case KeyUp:
		sess.HistoryUp()
	case KeyDown:
		sess.HistoryDown()
	}
	return nil
}

func (e *Editor) handleHelp(KeyEvent) error {
	// Any key dismisses the overlay.
	e.overlay = nil
	e.mode = e.prevMode
	return nil
}

func (e *Editor) handleTabSwitcher(ev KeyEvent) error {
	switch ev.Key {
	case KeyEsc:
		e.mode = mode.Normal
	case KeyTab:
		return e.tabMgr.SwitchNext()
	case KeyBacktab:
		return e.tabMgr.SwitchPrev()
	}
	return nil
}
