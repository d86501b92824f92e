package app

import (
	"fmt"
	"path/filepath"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/mattn/go-runewidth"

	"github.com/vigor-editor/vigor/internal/buffer"
	"github.com/vigor-editor/vigor/internal/mode"
	"github.com/vigor-editor/vigor/internal/window"
)

// gutterWidth is the width of the line-number column in document windows.
const gutterWidth = 4

// layout is the gocui manager function: it polls background sources, then
// redraws every view from the current session state.
func (a *App) layout(g *gocui.Gui) error {
	if a.ed.ShouldQuit() {
		return gocui.ErrQuit
	}

	a.ed.PollShells()

	maxX, maxY := g.Size()
	tree := a.ed.Tree()
	left := 0
	if tree.Visible {
		left = tree.Width
		if left > maxX/2 {
			left = maxX / 2
		}
	}
	a.ed.Resize(maxX-left, maxY-chromeRows)

	if err := a.drawTabBar(g, maxX); err != nil {
		return err
	}

	if tree.Visible {
		if err := a.drawFileTree(g, left, maxY); err != nil {
			return err
		}
	} else {
		g.DeleteView("filetree")
	}

	if err := a.drawWindows(g, left, maxX, maxY); err != nil {
		return err
	}

	if err := a.drawStatusBar(g, maxX, maxY); err != nil {
		return err
	}
	if err := a.drawCommandLine(g, maxX, maxY); err != nil {
		return err
	}

	if len(a.ed.Overlay()) > 0 {
		if err := a.drawOverlay(g, maxX, maxY); err != nil {
			return err
		}
	} else {
		g.DeleteView("overlay")
	}

	return a.focus(g)
}

// barView creates or fetches a frameless full-width one-row view.
func barView(g *gocui.Gui, name string, row, maxX int) (*gocui.View, error) {
	v, err := g.SetView(name, -1, row-1, maxX, row+1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return nil, err
	}
	v.Frame = false
	v.Wrap = false
	v.Clear()
	return v, nil
}

func (a *App) drawTabBar(g *gocui.Gui, maxX int) error {
	v, err := barView(g, "tabbar", 0, maxX)
	if err != nil {
		return err
	}

	tabs := a.ed.Tabs().List()
	if len(tabs) == 0 {
		fmt.Fprint(v, " [No Name]")
		return nil
	}

	var sb strings.Builder
	current := a.ed.Tabs().CurrentIndex()
	for i, t := range tabs {
		name := filepath.Base(t.Name)
		if i == current {
			sb.WriteString(fmt.Sprintf(" [%s]", name))
		} else {
			sb.WriteString(fmt.Sprintf("  %s ", name))
		}
	}
	fmt.Fprint(v, runewidth.Truncate(sb.String(), maxX, ">"))
	return nil
}

func (a *App) drawFileTree(g *gocui.Gui, width, maxY int) error {
	v, err := g.SetView("filetree", 0, 1, width-1, maxY-3, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}

	tree := a.ed.Tree()
	v.Frame = true
	v.Wrap = false
	v.Title = fmt.Sprintf(" %s ", filepath.Base(tree.Root))
	v.Editable = true
	v.Editor = gocui.EditorFunc(a.editKey)
	if a.ed.Mode() == mode.FileTree {
		v.FrameColor = colorAttr(a.cfg.Theme.ActiveFrame)
	} else {
		v.FrameColor = gocui.ColorDefault
	}

	inner := width - 2
	v.Clear()
	for i, e := range tree.Entries {
		marker := "  "
		if i == tree.Cursor {
			marker = "> "
		}
		icon := ""
		if e.IsDir {
			if e.IsExpanded {
				icon = "v "
			} else {
				icon = "> "
			}
		}
		line := marker + strings.Repeat("  ", e.Level) + icon + e.Name
		fmt.Fprintln(v, runewidth.Truncate(line, inner, ">"))
	}
	return nil
}

// drawWindows tiles one view per window. Window i shows buffer i (clamped);
// the active window always shows the active buffer.
func (a *App) drawWindows(g *gocui.Gui, left, maxX, maxY int) error {
	windows := a.ed.Windows().All()
	bufs := a.ed.Buffers()

	for i, w := range windows {
		x0 := left + w.X
		y0 := 1 + w.Y
		x1 := x0 + w.Width - 1
		y1 := y0 + w.Height - 1
		if x1 > maxX-1 {
			x1 = maxX - 1
		}
		if y1 > maxY-3 {
			y1 = maxY - 3
		}
		if x1 <= x0+1 || y1 <= y0+1 {
			continue
		}

		name := fmt.Sprintf("window-%d", i)
		v, err := g.SetView(name, x0, y0, x1, y1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}

		buf := bufs[min(i, len(bufs)-1)]
		if w.Active {
			buf = a.ed.ActiveBuffer()
		}
		a.configureWindowView(v, w, buf)

		v.Clear()
		if buf.IsShell() {
			renderShell(v, buf, x1-x0-1, y1-y0-1)
		} else {
			renderDocument(v, buf, x1-x0-1, y1-y0-1)
		}
	}

	// Drop views for windows that no longer exist.
	for i := len(windows); ; i++ {
		if err := g.DeleteView(fmt.Sprintf("window-%d", i)); err != nil {
			break
		}
	}
	return nil
}

func (a *App) configureWindowView(v *gocui.View, w *window.Window, buf *buffer.Buffer) {
	title := " " + buf.Name()
	if buf.Modified() {
		title += " [+]"
	}
	v.Title = title + " "
	v.Frame = true
	v.Wrap = false
	v.Autoscroll = false
	v.Editable = true
	v.Editor = gocui.EditorFunc(a.editKey)

	if w.Active {
		v.FrameColor = colorAttr(a.cfg.Theme.ActiveFrame)
		v.TitleColor = colorAttr(a.cfg.Theme.ActiveFrame)
	} else {
		v.FrameColor = gocui.ColorDefault
		v.TitleColor = gocui.ColorDefault
	}
}

// renderDocument paints a text buffer with a line-number gutter, scrolling
// the viewport so the cursor stays inside it.
func renderDocument(v *gocui.View, buf *buffer.Buffer, width, height int) {
	if buf.CursorY < buf.OffsetY {
		buf.OffsetY = buf.CursorY
	}
	if buf.CursorY >= buf.OffsetY+height {
		buf.OffsetY = buf.CursorY - height + 1
	}
	textWidth := width - gutterWidth
	if textWidth < 1 {
		textWidth = 1
	}
	if buf.CursorX < buf.OffsetX {
		buf.OffsetX = buf.CursorX
	}
	if buf.CursorX >= buf.OffsetX+textWidth {
		buf.OffsetX = buf.CursorX - textWidth + 1
	}

	last := buf.OffsetY + height
	if last > buf.Doc.LineCount() {
		last = buf.Doc.LineCount()
	}
	for row := buf.OffsetY; row < last; row++ {
		line := buf.Doc.Line(row)
		if buf.OffsetX < len(line) {
			line = line[buf.OffsetX:]
		} else {
			line = ""
		}
		fmt.Fprintf(v, "%3d %s\n", row+1, runewidth.Truncate(line, textWidth, ">"))
	}
}

// renderShell paints the captured output tail plus the prompt line.
func renderShell(v *gocui.View, buf *buffer.Buffer, width, height int) {
	sess := buf.Shell
	prompt := "$ " + sess.Input()
	if !sess.Running() {
		prompt = "[shell exited]"
	}

	lines := sess.Lines
	visible := height - 1
	if visible < 0 {
		visible = 0
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for _, line := range lines {
		fmt.Fprintln(v, runewidth.Truncate(line, width, ">"))
	}
	fmt.Fprint(v, runewidth.Truncate(prompt, width, ">"))
}

func (a *App) drawStatusBar(g *gocui.Gui, maxX, maxY int) error {
	v, err := barView(g, "statusbar", maxY-2, maxX)
	if err != nil {
		return err
	}
	v.BgColor = colorAttr(a.cfg.Theme.StatusBarBg)
	v.FgColor = colorAttr(a.cfg.Theme.StatusBarFg)

	b := a.ed.ActiveBuffer()
	left := fmt.Sprintf(" %s | %s", a.ed.Mode().String(), b.Name())
	if b.Modified() {
		left += " [+]"
	}
	if a.ed.PendingLeader() {
		left += " | SPC"
	}

	var right string
	if b.IsShell() {
		if cmd := b.Shell.ActiveCommand(); cmd != "" {
			right = fmt.Sprintf("run: %s ", cmd)
		}
	} else {
		right = fmt.Sprintf("Ln %d, Col %d ", b.CursorY+1, b.CursorX+1)
	}

	padding := maxX - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if padding < 1 {
		padding = 1
	}
	fmt.Fprintf(v, "%s%*s%s", left, padding, "", right)
	return nil
}

func (a *App) drawCommandLine(g *gocui.Gui, maxX, maxY int) error {
	v, err := barView(g, "cmdline", maxY-1, maxX)
	if err != nil {
		return err
	}
	if a.ed.Mode() == mode.Command {
		fmt.Fprint(v, runewidth.Truncate(":"+a.ed.CommandLine(), maxX, ">"))
	} else if msg := a.ed.Message(); msg != "" {
		fmt.Fprint(v, runewidth.Truncate(msg, maxX, ">"))
	}
	return nil
}

// drawOverlay centers the help or diff overlay over the editing area.
func (a *App) drawOverlay(g *gocui.Gui, maxX, maxY int) error {
	lines := a.ed.Overlay()

	width := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	width += 4
	if width > maxX-2 {
		width = maxX - 2
	}
	height := len(lines) + 2
	if height > maxY-2 {
		height = maxY - 2
	}

	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	v, err := g.SetView("overlay", x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	v.Frame = true
	v.Wrap = false
	v.Editable = true
	v.Editor = gocui.EditorFunc(a.editKey)
	v.FrameColor = colorAttr(a.cfg.Theme.ActiveFrame)

	v.Clear()
	inner := width - 2
	last := min(len(lines), height-2)
	for _, l := range lines[:last] {
		fmt.Fprintln(v, runewidth.Truncate(" "+l, inner, ">"))
	}
	return nil
}

// focus sets the current view and the hardware cursor for the active mode.
func (a *App) focus(g *gocui.Gui) error {
	var name string
	switch {
	case len(a.ed.Overlay()) > 0:
		name = "overlay"
	case a.ed.Mode() == mode.FileTree:
		name = "filetree"
	default:
		name = fmt.Sprintf("window-%d", a.ed.Windows().ActiveIndex())
	}
	if _, err := g.SetCurrentView(name); err != nil {
		return err
	}

	g.Cursor = false
	if name == "overlay" || name == "filetree" {
		return nil
	}

	v, err := g.View(name)
	if err != nil {
		return nil
	}
	b := a.ed.ActiveBuffer()
	switch a.ed.Mode() {
	case mode.Insert, mode.Visual, mode.Normal:
		if !b.IsShell() {
			g.Cursor = true
			v.SetCursor(gutterWidth+b.CursorX-b.OffsetX, b.CursorY-b.OffsetY)
		}
	case mode.Shell:
		if b.IsShell() && b.Shell.Running() {
			g.Cursor = true
			_, vy := v.Size()
			tail := len(b.Shell.Lines)
			if tail > vy-1 {
				tail = vy - 1
			}
			v.SetCursor(2+b.Shell.Cursor(), tail)
		}
	}
	return nil
}

// colorAttr maps a validated config color name to a gocui attribute.
func colorAttr(name string) gocui.Attribute {
	switch strings.ToLower(name) {
	case "black":
		return gocui.ColorBlack
	case "red":
		return gocui.ColorRed
	case "green":
		return gocui.ColorGreen
	case "yellow":
		return gocui.ColorYellow
	case "blue":
		return gocui.ColorBlue
	case "magenta":
		return gocui.ColorMagenta
	case "cyan":
		return gocui.ColorCyan
	case "white":
		return gocui.ColorWhite
	default:
		return gocui.ColorDefault
	}
}
