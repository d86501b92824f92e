// Package editor implements the session core: it owns every buffer, the
// windows, the tab manager, and the mode state machine, and routes each
// input event to exactly one handler.
package editor

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2"

	"github.com/vigor-editor/vigor/internal/buffer"
	"github.com/vigor-editor/vigor/internal/config"
	"github.com/vigor-editor/vigor/internal/filetree"
	"github.com/vigor-editor/vigor/internal/highlight"
	"github.com/vigor-editor/vigor/internal/lsp"
	"github.com/vigor-editor/vigor/internal/mode"
	"github.com/vigor-editor/vigor/internal/shell"
	"github.com/vigor-editor/vigor/internal/tabs"
	"github.com/vigor-editor/vigor/internal/window"
)

// Editor is the session: single owner of all editing state. All methods
// are called from the UI event loop; nothing here needs locking.
type Editor struct {
	cfg *config.Config
	log *slog.Logger

	buffers []*buffer.Buffer
	active  int

	windows *window.Manager
	tabMgr  *tabs.Manager
	tree    *filetree.Tree
	servers *lsp.Launcher

	mode          mode.Mode
	prevMode      mode.Mode
	pendingLeader bool

	commandLine string
	message     string
	overlay     []string

	// syntax is the advisory token stream for the most recently opened
	// file; it is never required for correctness.
	syntax []chroma.Token

	quit bool

	width, height int
}

// New creates a session with one empty buffer and one window covering the
// editing area. The initial directory scan is part of session construction
// and its failure is fatal.
func New(cfg *config.Config, log *slog.Logger, width, height int) (*Editor, error) {
	if log == nil {
		log = slog.Default()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	tree, err := filetree.New(cwd, cfg.FileTree.Width, cfg.FileTree.ShowHidden, log)
	if err != nil {
		return nil, fmt.Errorf("initial directory scan: %w", err)
	}

	return &Editor{
		cfg:     cfg,
		log:     log,
		buffers: []*buffer.Buffer{buffer.New()},
		windows: window.NewManager(width, height),
		tabMgr:  tabs.NewManager(),
		tree:    tree,
		servers: lsp.NewLauncher(log),
		width:   width,
		height:  height,
	}, nil
}

// Accessors used by the renderer.

func (e *Editor) Mode() mode.Mode              { return e.mode }
func (e *Editor) Buffers() []*buffer.Buffer    { return e.buffers }
func (e *Editor) ActiveBuffer() *buffer.Buffer { return e.buffers[e.active] }
func (e *Editor) ActiveBufferIndex() int       { return e.active }
func (e *Editor) Windows() *window.Manager     { return e.windows }
func (e *Editor) Tabs() *tabs.Manager          { return e.tabMgr }
func (e *Editor) Tree() *filetree.Tree         { return e.tree }
func (e *Editor) CommandLine() string          { return e.commandLine }
func (e *Editor) Message() string              { return e.message }
func (e *Editor) Overlay() []string            { return e.overlay }
func (e *Editor) PendingLeader() bool          { return e.pendingLeader }
func (e *Editor) ShouldQuit() bool             { return e.quit }

// Resize updates the editing-area dimensions.
func (e *Editor) Resize(width, height int) {
	e.width, e.height = width, height
	e.windows.Resize(width, height)
}

// OpenFile loads a file into a new buffer, registers a tab for it, and
// makes it active. Used at startup and from the ex command line.
func (e *Editor) OpenFile(filename string) error {
	buf, err := buffer.FromFile(filename)
	if err != nil {
		return err
	}
	e.buffers = append(e.buffers, buf)
	e.active = len(e.buffers) - 1
	e.windows.Active().FilePath = filename

	if _, err := e.tabMgr.Create(filename, buf); err != nil {
		return err
	}

	e.refreshSyntax(buf)
	e.startServer(filename)

	e.log.Info("opened file", "filename", filename)
	return nil
}

// refreshSyntax re-tokenises a file buffer. The result is advisory.
func (e *Editor) refreshSyntax(buf *buffer.Buffer) {
	if buf.IsShell() {
		return
	}
	lang := lsp.LanguageIDForFile(buf.Doc.Filename())
	if lang == "" {
		e.syntax = nil
		return
	}
	e.syntax = highlight.Parse(lang, buf.Doc.Content())
}

// startServer launches the language server for a file, best effort.
func (e *Editor) startServer(filename string) {
	lang := lsp.LanguageIDForFile(filename)
	if lang == "" {
		return
	}
	if _, err := e.servers.Start(lang); err != nil {
		e.log.Info("language server unavailable", "language", lang, "error", err)
	}
}

// openShell creates a shell buffer, splits the active window for it, and
// enters Shell mode remembering the mode to return to.
func (e *Editor) openShell(kind shell.SplitKind) error {
	buf := buffer.FromShell(e.cfg.DefaultShell, kind, e.log)
	e.buffers = append(e.buffers, buf)
	e.active = len(e.buffers) - 1

	if kind == shell.SplitHorizontal {
		e.windows.Split(window.SplitHorizontal)
	} else {
		e.windows.Split(window.SplitVertical)
	}

	e.prevMode = e.mode
	e.mode = mode.Shell
	e.log.Info("opened shell split", "horizontal", kind == shell.SplitHorizontal)
	return nil
}

// closeBuffer closes the active buffer unless it is the last one. Closing
// a shell buffer terminates its child process.
func (e *Editor) closeBuffer() error {
	if len(e.buffers) <= 1 {
		e.log.Info("cannot close the last buffer")
		return nil
	}
	closing := e.buffers[e.active]
	if !e.tabReferences(closing) {
		closing.Close()
	}
	e.buffers = append(e.buffers[:e.active], e.buffers[e.active+1:]...)
	if e.active >= len(e.buffers) {
		e.active = len(e.buffers) - 1
	}
	return nil
}

// tabReferences reports whether any tab still shows buf; such a buffer
// stays alive (dead or not) so the tab remains inspectable.
func (e *Editor) tabReferences(buf *buffer.Buffer) bool {
	for _, t := range e.tabMgr.List() {
		if t.Buffer == buf {
			return true
		}
	}
	return false
}

// closeWindow closes the active window. Closing the last window is a no-op
// unless it also shows the last buffer, which is a request to quit.
func (e *Editor) closeWindow() error {
	if !e.windows.Close() {
		if len(e.buffers) <= 1 {
			e.quit = true
		}
	}
	return nil
}

// PollShells drains every live shell session. Called before each repaint so
// output appears without the foreground loop ever blocking on it. If the
// shell currently displayed in Shell mode has stopped running, the mode
// reverts to whatever was active before entering it.
func (e *Editor) PollShells() {
	for _, buf := range e.buffers {
		if buf.Shell != nil {
			buf.Shell.PollOutput()
		}
	}
	if e.mode.IsShell() {
		if b := e.ActiveBuffer(); b.IsShell() && !b.Shell.Running() {
			e.log.Info("displayed shell terminated", "return_mode", e.prevMode.String())
			e.mode = e.prevMode
		}
	}
	if e.tree != nil && e.tree.Stale() {
		if err := e.tree.Refresh(); err != nil {
			e.log.Warn("file tree refresh failed", "error", err)
		}
	}
}

// Close releases every owned resource: shell children, the tree watcher,
// and any launched language servers.
func (e *Editor) Close() {
	for _, buf := range e.buffers {
		buf.Close()
	}
	for _, t := range e.tabMgr.List() {
		t.Buffer.Close()
	}
	if e.tree != nil {
		e.tree.Close()
	}
	e.servers.Shutdown()
}
