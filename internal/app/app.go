// Package app owns the gocui lifecycle: it turns terminal events into
// editor key events and repaints the session on every loop tick.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/vigor-editor/vigor/internal/config"
	"github.com/vigor-editor/vigor/internal/editor"
)

// chromeRows is the screen space reserved outside the editing area: the tab
// bar on top, the status bar and the command line at the bottom.
const chromeRows = 3

// App wires the editor session to a gocui main loop.
type App struct {
	gui *gocui.Gui
	cfg *config.Config
	ed  *editor.Editor
	log *slog.Logger
}

// New initializes the GUI and creates the editor session sized to it.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	g, err := gocui.NewGui(gocui.NewGuiOpts{
		OutputMode: gocui.OutputTrue,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing GUI: %w", err)
	}

	maxX, maxY := g.Size()
	ed, err := editor.New(cfg, log, maxX, maxY-chromeRows)
	if err != nil {
		g.Close()
		return nil, err
	}

	g.Mouse = true
	g.Cursor = false

	return &App{gui: g, cfg: cfg, ed: ed, log: log}, nil
}

// Editor returns the underlying session.
func (a *App) Editor() *editor.Editor { return a.ed }

// Run starts the main event loop and blocks until quit.
func (a *App) Run() error {
	defer a.gui.Close()

	a.gui.SetManagerFunc(a.layout)

	if err := a.setupKeybindings(); err != nil {
		return fmt.Errorf("setting up keybindings: %w", err)
	}

	stop := make(chan struct{})
	go a.backgroundRefresh(stop)
	defer close(stop)

	// Clean exit on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		a.gui.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	if err := a.gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}

// backgroundRefresh ticks the GUI so shell output written between
// keystrokes shows up; the actual polling happens in layout.
func (a *App) backgroundRefresh(stop <-chan struct{}) {
	interval := time.Duration(a.cfg.RefreshInterval) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.gui.Update(func(g *gocui.Gui) error { return nil })
		}
	}
}

// setupKeybindings installs the few bindings that bypass the mode machine.
// Everything else reaches the editor through the view editor function.
func (a *App) setupKeybindings() error {
	// Ctrl+C always quits, whatever mode is active.
	if err := a.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		return gocui.ErrQuit
	}); err != nil {
		return err
	}

	if err := a.gui.SetKeybinding("", gocui.MouseLeft, gocui.ModNone, a.mouseHandler); err != nil {
		return err
	}

	return nil
}

// mouseHandler forwards a click on a window view as buffer coordinates.
func (a *App) mouseHandler(g *gocui.Gui, v *gocui.View) error {
	if v == nil {
		return nil
	}
	cx, cy := v.Cursor()
	b := a.ed.ActiveBuffer()
	a.ed.HandleMouse(editor.MouseEvent{
		X: cx - gutterWidth + b.OffsetX,
		Y: cy + b.OffsetY,
	})
	return nil
}

// editKey is the shared gocui editor function: it translates the raw key
// into an editor event and hands it to the mode state machine.
func (a *App) editKey(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ev, ok := translateKey(key, ch, mod)
	if !ok {
		return false
	}
	a.ed.HandleKey(ev)
	if a.ed.ShouldQuit() {
		a.gui.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}
	return true
}

// translateKey maps a gocui key event onto the editor's event type.
func translateKey(key gocui.Key, ch rune, mod gocui.Modifier) (editor.KeyEvent, bool) {
	if ch != 0 && mod == gocui.ModNone {
		return editor.Rune(ch), true
	}
	switch key {
	case gocui.KeySpace:
		return editor.Rune(' '), true
	case gocui.KeyEsc:
		return editor.KeyEvent{Key: editor.KeyEsc}, true
	case gocui.KeyEnter:
		return editor.KeyEvent{Key: editor.KeyEnter}, true
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		return editor.KeyEvent{Key: editor.KeyBackspace}, true
	case gocui.KeyDelete:
		return editor.KeyEvent{Key: editor.KeyDelete}, true
	case gocui.KeyArrowLeft:
		return editor.KeyEvent{Key: editor.KeyLeft}, true
	case gocui.KeyArrowRight:
		return editor.KeyEvent{Key: editor.KeyRight}, true
	case gocui.KeyArrowUp:
		return editor.KeyEvent{Key: editor.KeyUp}, true
	case gocui.KeyArrowDown:
		return editor.KeyEvent{Key: editor.KeyDown}, true
	case gocui.KeyTab:
		return editor.KeyEvent{Key: editor.KeyTab}, true
	case gocui.KeyBacktab:
		return editor.KeyEvent{Key: editor.KeyBacktab}, true
	}
	return editor.KeyEvent{}, false
}
